package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/domain/repository"
	"github.com/dvor-map/internal/pkg/errors"
	"github.com/dvor-map/internal/pkg/utils"
)

// BuildingCache - общий для всего процесса кеш домов. Заполняется первой
// удачной загрузкой, заменяется целиком (последняя запись побеждает),
// между заменами читатели видят целостный список. Счётчики и статусы
// никогда не считаются локально - только то, что прислало хранилище.
type BuildingCache struct {
	store          repository.StoreRepository
	snapshots      repository.SnapshotRepository
	logger         *zap.Logger
	warmupInterval time.Duration

	mu        sync.RWMutex
	buildings []domain.Building
	version   uint64
}

func NewBuildingCache(
	store repository.StoreRepository,
	snapshots repository.SnapshotRepository,
	logger *zap.Logger,
	warmupInterval time.Duration,
) *BuildingCache {
	return &BuildingCache{
		store:          store,
		snapshots:      snapshots,
		logger:         logger,
		warmupInterval: warmupInterval,
	}
}

// Bootstrap seeds the cache from the session snapshot so the map paints
// instantly after a restart. Any failure just means an empty first paint.
func (c *BuildingCache) Bootstrap(ctx context.Context) {
	if c.snapshots == nil {
		return
	}
	buildings, err := c.snapshots.Buildings(ctx)
	if err != nil {
		c.logger.Warn("Failed to load building snapshot", zap.Error(err))
		return
	}
	if len(buildings) == 0 {
		return
	}

	c.mu.Lock()
	if c.version == 0 {
		c.buildings = buildings
		c.version++
	}
	c.mu.Unlock()

	c.logger.Info("Cache seeded from snapshot", zap.Int("count", len(buildings)))
}

// Refresh загружает полный список домов и атомарно заменяет кеш.
// При ошибке прежний кеш остаётся нетронутым.
func (c *BuildingCache) Refresh(ctx context.Context) error {
	c.maybeWarmup(ctx)

	buildings, err := c.store.ListBuildings(ctx)
	if err != nil {
		c.logger.Warn("Building refresh failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.buildings = buildings
	c.version++
	version := c.version
	c.mu.Unlock()

	c.logger.Debug("Cache refreshed",
		zap.Int("count", len(buildings)),
		zap.Uint64("version", version))

	if c.snapshots != nil {
		if err := c.snapshots.SaveBuildings(ctx, buildings); err != nil {
			c.logger.Warn("Failed to persist building snapshot", zap.Error(err))
		}
	}
	return nil
}

// maybeWarmup будит холодный бэкенд перед основным чтением,
// не чаще раза в минуту. Любая ошибка здесь не мешает основному вызову.
func (c *BuildingCache) maybeWarmup(ctx context.Context) {
	if c.snapshots == nil {
		return
	}
	last, err := c.snapshots.WarmupAt(ctx)
	if err != nil {
		c.logger.Debug("Failed to read warmup mark", zap.Error(err))
		return
	}
	now := time.Now().UTC()
	if !last.IsZero() && now.Sub(last) < c.warmupInterval {
		return
	}
	if err := c.snapshots.MarkWarmup(ctx, now); err != nil {
		c.logger.Debug("Failed to mark warmup", zap.Error(err))
	}
	if err := c.store.Warmup(ctx); err != nil {
		c.logger.Debug("Warmup probe failed", zap.Error(err))
	}
}

// Buildings returns a copy of the current cache contents.
func (c *BuildingCache) Buildings() []domain.Building {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Building, len(c.buildings))
	copy(out, c.buildings)
	return out
}

// Version grows on every successful refresh; derived layers use it to
// detect that a recompute is due.
func (c *BuildingCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Find возвращает дом по идентификатору из текущего кеша
func (c *BuildingCache) Find(id int64) (domain.Building, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.buildings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Building{}, false
}

// Create создаёт дом и сразу перезагружает кеш, возвращая созданную
// запись, чтобы вызывающий мог тут же её выбрать. Создание не
// повторяется автоматически - дубликаты хуже отказа.
func (c *BuildingCache) Create(ctx context.Context, input domain.CreateBuildingInput) (*domain.Building, error) {
	if input.Lat != nil && input.Lng != nil {
		if !utils.ValidateCoordinates(*input.Lat, *input.Lng) {
			return nil, errors.ErrInvalidCoordinates
		}
	} else if input.Address == nil || *input.Address == "" {
		return nil, errors.ErrEmptyAddress
	}

	created, err := c.store.CreateBuilding(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		// дом уже создан; устаревший кеш - допустимое состояние
		c.logger.Warn("Post-create refresh failed", zap.Error(err))
	}
	return created, nil
}

// PatchPosition переносит дом и перезагружает кеш. Возвращает
// подтверждённую хранилищем запись - вызывающий накладывает её координаты
// на выбранную карточку, чтобы та не показывала старую позицию, пока
// фоновая перезагрузка не доехала.
func (c *BuildingCache) PatchPosition(ctx context.Context, id int64, lat, lng float64) (*domain.Building, error) {
	if !utils.ValidateCoordinates(lat, lng) {
		return nil, errors.ErrInvalidCoordinates
	}

	updated, err := c.store.UpdateBuildingPosition(ctx, id, lat, lng)
	if err != nil {
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("Post-move refresh failed", zap.Error(err))
	}
	return updated, nil
}

// Reports - сквозное чтение жалоб дома; ошибка уходит вызывающему,
// он решает, как деградировать
func (c *BuildingCache) Reports(ctx context.Context, buildingID int64) ([]domain.Report, error) {
	return c.store.ListReports(ctx, buildingID)
}

// SubmitReport - сквозная отправка жалобы
func (c *BuildingCache) SubmitReport(ctx context.Context, input domain.NewReportInput) (*domain.Report, error) {
	return c.store.CreateReport(ctx, input)
}

// ConfirmProblem - сквозной голос "проблема подтверждается"
func (c *BuildingCache) ConfirmProblem(ctx context.Context, reportID int64) error {
	return c.store.ConfirmProblem(ctx, reportID)
}

// ConfirmResolved - сквозной голос "проблема решена"
func (c *BuildingCache) ConfirmResolved(ctx context.Context, reportID int64) error {
	return c.store.ConfirmResolved(ctx, reportID)
}

// ConfirmPositive - сквозной голос "дом в порядке"
func (c *BuildingCache) ConfirmPositive(ctx context.Context, buildingID int64) error {
	return c.store.ConfirmPositive(ctx, buildingID)
}
