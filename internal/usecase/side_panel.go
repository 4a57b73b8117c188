package usecase

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/pkg/errors"
)

// SidePanel ведёт жизненный цикл выбранного дома: его жалобы, отправку
// новых и голосование. После каждого действия дом и жалобы перечитываются
// из хранилища, а выбранная карточка сверяется с обновлённой копией по
// идентификатору - панель никогда не показывает устаревшие счётчики.
type SidePanel struct {
	cache  *BuildingCache
	logger *zap.Logger

	mu       sync.Mutex
	selected *domain.Building
	reports  []domain.Report
	// overlay - оптимистичные координаты после подтверждённого переноса.
	// Накладывается только на выбранную карточку, в канонический кеш
	// не пишется; следующая удачная перезагрузка его вытесняет.
	overlay *domain.Point
}

func NewSidePanel(cache *BuildingCache, logger *zap.Logger) *SidePanel {
	return &SidePanel{
		cache:  cache,
		logger: logger,
	}
}

// Open selects a building and loads its reports. A failed report fetch
// degrades to an empty list instead of blocking the selection.
func (p *SidePanel) Open(ctx context.Context, b domain.Building) {
	reports, err := p.cache.Reports(ctx, b.ID)
	if err != nil {
		p.logger.Warn("Failed to load reports",
			zap.Int64("building_id", b.ID),
			zap.Error(err))
		reports = []domain.Report{}
	}

	p.mu.Lock()
	p.selected = &b
	p.reports = reports
	p.overlay = nil
	p.mu.Unlock()

	p.logger.Info("Building opened",
		zap.Int64("building_id", b.ID),
		zap.Int("reports", len(reports)))
}

// Close сбрасывает выбор
func (p *SidePanel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = nil
	p.reports = nil
	p.overlay = nil
}

// Selected returns the selected building with the optimistic position
// overlay applied, if any.
func (p *SidePanel) Selected() (domain.Building, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return domain.Building{}, false
	}
	b := *p.selected
	if p.overlay != nil {
		b.Lat = p.overlay.Lat
		b.Lng = p.overlay.Lng
	}
	return b, true
}

// SelectedID returns the selected building id, or nil.
func (p *SidePanel) SelectedID() *int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return nil
	}
	id := p.selected.ID
	return &id
}

// Reports returns a copy of the loaded reports.
func (p *SidePanel) Reports() []domain.Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Report, len(p.reports))
	copy(out, p.reports)
	return out
}

// ReportCount - количество загруженных жалоб выбранного дома
// (охраняет вход в режим переноса)
func (p *SidePanel) ReportCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reports)
}

// ApplyPositionOverlay накладывает подтверждённые хранилищем координаты
// на выбранную карточку
func (p *SidePanel) ApplyPositionOverlay(lat, lng float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return
	}
	p.overlay = &domain.Point{Lat: lat, Lng: lng}
}

// SubmitReport отправляет жалобу. Пустой текст отклоняется до сети;
// суточный лимит хранилища превращается в отдельное понятное сообщение,
// а не в общую ошибку.
func (p *SidePanel) SubmitReport(ctx context.Context, input domain.NewReportInput) error {
	if strings.TrimSpace(input.Text) == "" {
		return errors.ErrEmptyReportText
	}

	p.mu.Lock()
	if p.selected == nil {
		p.mu.Unlock()
		return errors.ErrNoSelection
	}
	input.BuildingID = p.selected.ID
	p.mu.Unlock()

	if _, err := p.cache.SubmitReport(ctx, input); err != nil {
		if errors.IsRateLimited(err) {
			detail := "Вы уже оставляли жалобу за последние 24 часа для этого дома"
			if appErr, ok := errors.AsAppError(err); ok && appErr.Message != "" {
				detail = appErr.Message
			}
			return errors.NewValidation("REPORT_RATE_LIMITED", detail)
		}
		return err
	}

	p.refreshSelected(ctx)
	return nil
}

// ConfirmProblem голосует за подтверждение проблемы. При насыщенном
// счётчике действие инертно: не ошибка, просто ничего не происходит.
func (p *SidePanel) ConfirmProblem(ctx context.Context, reportID int64) error {
	report, ok := p.findReport(reportID)
	if !ok {
		return errors.ErrInvalidRequest
	}
	if !report.ProblemVoteOpen() {
		return nil
	}

	if err := p.cache.ConfirmProblem(ctx, reportID); err != nil {
		return err
	}
	p.refreshSelected(ctx)
	return nil
}

// ConfirmResolved голосует за то, что проблема решена; тот же потолок
func (p *SidePanel) ConfirmResolved(ctx context.Context, reportID int64) error {
	report, ok := p.findReport(reportID)
	if !ok {
		return errors.ErrInvalidRequest
	}
	if !report.ResolvedVoteOpen() {
		return nil
	}

	if err := p.cache.ConfirmResolved(ctx, reportID); err != nil {
		return err
	}
	p.refreshSelected(ctx)
	return nil
}

// ConfirmPositive - голос "дом в порядке" за выбранный дом
func (p *SidePanel) ConfirmPositive(ctx context.Context) error {
	p.mu.Lock()
	if p.selected == nil {
		p.mu.Unlock()
		return errors.ErrNoSelection
	}
	id := p.selected.ID
	p.mu.Unlock()

	if err := p.cache.ConfirmPositive(ctx, id); err != nil {
		return err
	}
	p.refreshSelected(ctx)
	return nil
}

func (p *SidePanel) findReport(reportID int64) (domain.Report, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.reports {
		if r.ID == reportID {
			return r, true
		}
	}
	return domain.Report{}, false
}

// refreshSelected перечитывает кеш и жалобы и сверяет выбранную карточку
// с обновлённой копией. Перезагрузка авторитетна: оптимистичный оверлей
// после неё снимается.
func (p *SidePanel) refreshSelected(ctx context.Context) {
	if err := p.cache.Refresh(ctx); err != nil {
		p.logger.Warn("Post-action refresh failed", zap.Error(err))
	}

	p.mu.Lock()
	if p.selected == nil {
		p.mu.Unlock()
		return
	}
	id := p.selected.ID
	if updated, ok := p.cache.Find(id); ok {
		p.selected = &updated
		p.overlay = nil
	}
	p.mu.Unlock()

	reports, err := p.cache.Reports(ctx, id)
	if err != nil {
		// старый список лучше пустого, жалобы не критичны для панели
		p.logger.Debug("Failed to reload reports", zap.Error(err))
		return
	}

	p.mu.Lock()
	if p.selected != nil && p.selected.ID == id {
		p.reports = reports
	}
	p.mu.Unlock()
}
