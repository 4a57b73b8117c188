package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain/repository"
)

// Provider выдаёт анонимный идентификатор устройства. Генерируется один
// раз, сохраняется в сессионном хранилище и дальше отправляется как
// X-User-Hash, чтобы хранилище дедуплицировало отклики без аккаунтов.
type Provider struct {
	snapshots repository.SnapshotRepository
	logger    *zap.Logger

	mu     sync.Mutex
	cached string
}

func NewProvider(snapshots repository.SnapshotRepository, logger *zap.Logger) *Provider {
	return &Provider{
		snapshots: snapshots,
		logger:    logger,
	}
}

// UserHash returns the device hash, creating and persisting it on first use.
// Persistence failures are logged and tolerated: the hash then lives only for
// the current process.
func (p *Provider) UserHash(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}

	if p.snapshots != nil {
		hash, err := p.snapshots.UserHash(ctx)
		if err != nil {
			p.logger.Warn("Failed to load user hash from snapshot store", zap.Error(err))
		} else if hash != "" {
			p.cached = hash
			return hash
		}
	}

	hash := uuid.NewString()
	p.cached = hash

	if p.snapshots != nil {
		if err := p.snapshots.SaveUserHash(ctx, hash); err != nil {
			p.logger.Warn("Failed to persist user hash", zap.Error(err))
		}
	}

	p.logger.Info("Generated new anonymous user hash")
	return hash
}
