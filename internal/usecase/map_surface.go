package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/pkg/errors"
	"github.com/dvor-map/internal/pkg/utils"
)

// RenderState - всё, что нужно клиенту для отрисовки одного кадра карты.
// Состояние выводится заново из кеша при каждом запросе; клиент ничего
// не вычисляет сам, кроме собственно пикселей.
type RenderState struct {
	Version   uint64                 `json:"version"`
	Center    domain.Point           `json:"center"`
	Zoom      int                    `json:"zoom"`
	Mode      domain.InteractionMode `json:"mode"`
	Filters   domain.Filters         `json:"filters"`
	Markers   []Marker               `json:"markers"`
	Clusters  []Cluster              `json:"clusters"`
	Heat      []HeatPoint            `json:"heat"`
	HeatHints HeatHints              `json:"heat_hints"`
	// Preview - чёрный маркер выбранной, но не подтверждённой точки
	// (добавление или перенос)
	Preview  *Marker          `json:"preview,omitempty"`
	Selected *domain.Building `json:"selected,omitempty"`
	Reports  []domain.Report  `json:"reports,omitempty"`
}

// MapSurface связывает кеш, трекер области, машину режимов и боковую
// панель в один фасад. Вся маршрутизация кликов и подтверждений проходит
// здесь; нижние слои друг о друге не знают.
type MapSurface struct {
	cache       *BuildingCache
	tracker     *ViewportTracker
	interaction *InteractionStateMachine
	panel       *SidePanel
	clusterer   *ClusterRenderer
	logger      *zap.Logger

	mu          sync.Mutex
	viewport    domain.Viewport
	hasViewport bool
	filters     domain.Filters
	center      domain.Point
	zoom        int
}

func NewMapSurface(
	cache *BuildingCache,
	tracker *ViewportTracker,
	interaction *InteractionStateMachine,
	panel *SidePanel,
	clusterer *ClusterRenderer,
	centerLat, centerLng float64,
	zoom int,
	logger *zap.Logger,
) *MapSurface {
	return &MapSurface{
		cache:       cache,
		tracker:     tracker,
		interaction: interaction,
		panel:       panel,
		clusterer:   clusterer,
		logger:      logger,
		filters:     domain.DefaultFilters(),
		center:      domain.Point{Lat: centerLat, Lng: centerLng},
		zoom:        zoom,
	}
}

// ObserveViewport принимает очередное событие панорамирования или зума.
// Сама загрузка откладывается трекером до паузы в движении.
func (s *MapSurface) ObserveViewport(v domain.Viewport) {
	s.mu.Lock()
	s.viewport = v
	s.hasViewport = true
	s.zoom = v.Zoom
	s.center = domain.Point{
		Lat: (v.Bounds.South + v.Bounds.North) / 2,
		Lng: (v.Bounds.West + v.Bounds.East) / 2,
	}
	filters := s.filters
	s.mu.Unlock()

	s.tracker.Observe(v, filters)
}

// SetFilters меняет активные фильтры. Смена фильтра - такая же смена
// ключа области, как и панорамирование.
func (s *MapSurface) SetFilters(f domain.Filters) {
	s.mu.Lock()
	s.filters = f
	viewport := s.viewport
	hasViewport := s.hasViewport
	s.mu.Unlock()

	if hasViewport {
		s.tracker.Observe(viewport, f)
	}
}

// Filters returns the active filter set.
func (s *MapSurface) Filters() domain.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// geolocateZoom - приближение после перелёта к позиции пользователя
const geolocateZoom = 13

// Geolocate центрирует карту на позиции пользователя, приближает её и
// форсирует перезагрузку: после перелёта дедупликация по ключу не
// должна её съесть.
func (s *MapSurface) Geolocate(lat, lng float64) error {
	if !utils.ValidateCoordinates(lat, lng) {
		return errors.ErrInvalidCoordinates
	}

	s.mu.Lock()
	s.center = domain.Point{Lat: lat, Lng: lng}
	s.zoom = geolocateZoom
	s.hasViewport = false
	s.mu.Unlock()

	s.logger.Info("Map recentered to user position",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng))
	s.tracker.Kick()
	return nil
}

// PrimaryClickBuilding - ЛКМ по маркеру дома: выбор и открытие панели.
// Выбор другого дома принудительно завершает активный перенос.
func (s *MapSurface) PrimaryClickBuilding(ctx context.Context, id int64) error {
	building, ok := s.cache.Find(id)
	if !ok {
		return errors.ErrBuildingNotFound
	}

	s.interaction.OnSelectionChanged(&id)
	s.panel.Open(ctx, building)
	return nil
}

// PrimaryClickMap - ЛКМ по пустому месту. При переносе клик выбирает
// новую позицию; иначе сбрасывает выбор и закрывает панель.
func (s *MapSurface) PrimaryClickMap(p domain.Point) {
	if s.interaction.PrimaryClickPoint(p) {
		return
	}
	s.interaction.OnSelectionChanged(nil)
	s.panel.Close()
}

// SecondaryClick - ПКМ по карте (выбор точки для новой метки)
func (s *MapSurface) SecondaryClick(p domain.Point) {
	s.interaction.SecondaryClick(p)
}

// StartPlacing - вход в режим добавления с кнопки, без точки
func (s *MapSurface) StartPlacing() {
	s.interaction.StartPlacing()
}

// SetAddressDraft - черновик адреса в форме добавления
func (s *MapSurface) SetAddressDraft(address string) {
	s.interaction.SetAddressDraft(address)
}

// ConfirmPlacement подтверждает добавление метки: валидирует черновик,
// создаёт дом в хранилище и сразу выбирает его на карте.
func (s *MapSurface) ConfirmPlacement(ctx context.Context) (*domain.Building, error) {
	pending, address, err := s.interaction.TakePlacingDraft()
	if err != nil {
		return nil, err
	}

	input := domain.CreateBuildingInput{}
	if pending != nil {
		input.Lat = &pending.Lat
		input.Lng = &pending.Lng
	}
	if address != "" {
		input.Address = &address
	}

	created, err := s.cache.Create(ctx, input)
	if err != nil {
		// черновик не пропадает из-за отказа хранилища
		s.interaction.ResumePlacing(pending, address)
		return nil, err
	}

	s.interaction.OnSelectionChanged(&created.ID)
	s.panel.Open(ctx, *created)
	return created, nil
}

// CancelPlacement отменяет добавление метки
func (s *MapSurface) CancelPlacement() {
	s.interaction.CancelPlacing()
}

// StartRelocation включает перенос выбранного дома. Без выбора переносить
// нечего; дом с жалобами не переносится.
func (s *MapSurface) StartRelocation() error {
	id := s.panel.SelectedID()
	if id == nil {
		return errors.ErrNoSelection
	}
	return s.interaction.StartRelocating(*id, s.panel.ReportCount())
}

// ConfirmRelocation фиксирует перенос: хранилище подтверждает новую
// позицию, и она тут же накладывается на выбранную карточку, не дожидаясь
// фоновой перезагрузки.
func (s *MapSurface) ConfirmRelocation(ctx context.Context) (*domain.Building, error) {
	id, point, err := s.interaction.TakeRelocation()
	if err != nil {
		return nil, err
	}

	updated, err := s.cache.PatchPosition(ctx, id, point.Lat, point.Lng)
	if err != nil {
		s.interaction.ResumeRelocating(id, point)
		return nil, err
	}

	s.panel.ApplyPositionOverlay(updated.Lat, updated.Lng)
	return updated, nil
}

// CancelRelocation отменяет перенос
func (s *MapSurface) CancelRelocation() {
	s.interaction.CancelRelocating()
}

// SelectByID - выбор дома по идентификатору из внешней ссылки.
// Если дома нет в кеше, кеш перезагружается один раз.
func (s *MapSurface) SelectByID(ctx context.Context, id int64) (*domain.Building, error) {
	building, ok := s.cache.Find(id)
	if !ok {
		if err := s.cache.Refresh(ctx); err != nil {
			return nil, err
		}
		building, ok = s.cache.Find(id)
		if !ok {
			return nil, errors.ErrBuildingNotFound
		}
	}

	s.interaction.OnSelectionChanged(&building.ID)
	s.panel.Open(ctx, building)

	s.mu.Lock()
	s.center = building.Position()
	s.mu.Unlock()
	return &building, nil
}

// Render собирает текущий кадр: отфильтрованные дома раскладываются на
// маркеры и кластеры, поверх считается тепловой слой. Видимость по
// границам области клиент решает сам - сюда уходит весь прошедший
// фильтры список, чтобы панорамирование не требовало нового кадра.
func (s *MapSurface) Render(ctx context.Context) RenderState {
	s.mu.Lock()
	filters := s.filters
	center := s.center
	zoom := s.zoom
	s.mu.Unlock()

	all := s.cache.Buildings()
	visible := make([]domain.Building, 0, len(all))
	for _, b := range all {
		if filters.Match(b) {
			visible = append(visible, b)
		}
	}

	var selectedID *int64
	var selected *domain.Building
	if b, ok := s.panel.Selected(); ok {
		selected = &b
		selectedID = &b.ID
	}

	markers, clusters := s.clusterer.Build(visible, zoom, selectedID)

	mode := s.interaction.Mode()
	var preview *Marker
	if mode.Pending != nil {
		preview = &Marker{
			Building: domain.Building{Lat: mode.Pending.Lat, Lng: mode.Pending.Lng},
			Glyph:    domain.Glyph{Base: domain.GlyphPreview},
		}
	}

	state := RenderState{
		Version:   s.cache.Version(),
		Center:    center,
		Zoom:      zoom,
		Mode:      mode,
		Filters:   filters,
		Markers:   markers,
		Clusters:  clusters,
		Heat:      BuildHeatPoints(visible),
		HeatHints: DefaultHeatHints(),
		Preview:   preview,
		Selected:  selected,
	}
	if selected != nil {
		state.Reports = s.panel.Reports()
	}
	return state
}
