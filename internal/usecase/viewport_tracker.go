package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
)

// RefreshFunc выполняет перезагрузку кеша домов
type RefreshFunc func(ctx context.Context) error

// ViewportTracker следит за видимой областью карты. Всплеск событий
// панорамирования сводится к одной перезагрузке через 300 мс тишины
// (trailing debounce), а повтор того же квантованного ключа области
// вообще не планирует загрузку. Ошибки перезагрузки глотаются: устаревшая
// карта лучше заблокированной.
type ViewportTracker struct {
	refresh RefreshFunc
	quiesce time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	lastKey domain.ViewportKey
	hasKey  bool
	stopped bool
}

func NewViewportTracker(refresh RefreshFunc, quiesce time.Duration, logger *zap.Logger) *ViewportTracker {
	return &ViewportTracker{
		refresh: refresh,
		quiesce: quiesce,
		logger:  logger,
	}
}

// Observe handles a pan/zoom/filter change. An unchanged key is a no-op;
// a new key cancels any pending refresh and restarts the quiescence timer.
func (t *ViewportTracker) Observe(v domain.Viewport, f domain.Filters) {
	key := domain.NewViewportKey(v, f)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.hasKey && key == t.lastKey {
		return
	}
	t.lastKey = key
	t.hasKey = true
	t.scheduleLocked()
}

// Kick schedules a refresh regardless of the last key: initial load and
// the post-geolocation reposition go through here.
func (t *ViewportTracker) Kick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.scheduleLocked()
}

func (t *ViewportTracker) scheduleLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.quiesce, t.fire)
}

func (t *ViewportTracker) fire() {
	if err := t.refresh(context.Background()); err != nil {
		// фоновая загрузка не должна мешать работе с картой
		t.logger.Debug("Viewport refresh failed", zap.Error(err))
	}
}

// Stop cancels any pending refresh.
func (t *ViewportTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
