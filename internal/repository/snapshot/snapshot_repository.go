package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/domain/repository"
)

const (
	keyBuildings = "map:buildings:snapshot"
	keyWarmupAt  = "map:store:warmup_at"
	keyUserHash  = "map:user_hash"
)

type snapshotRepository struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewSnapshotRepository - сессионный снимок состояния карты поверх Redis
func NewSnapshotRepository(r *Redis, ttl time.Duration) repository.SnapshotRepository {
	return &snapshotRepository{
		client: r.Client(),
		logger: r.logger,
		ttl:    ttl,
	}
}

func (s *snapshotRepository) Buildings(ctx context.Context) ([]domain.Building, error) {
	data, err := s.client.Get(ctx, keyBuildings).Bytes()
	if err == redis.Nil {
		return nil, nil // no snapshot yet
	}
	if err != nil {
		s.logger.Error("Failed to load building snapshot", zap.Error(err))
		return nil, fmt.Errorf("snapshot get error: %w", err)
	}

	var buildings []domain.Building
	if err := json.Unmarshal(data, &buildings); err != nil {
		s.logger.Error("Failed to unmarshal building snapshot", zap.Error(err))
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	s.logger.Debug("Building snapshot loaded", zap.Int("count", len(buildings)))
	return buildings, nil
}

func (s *snapshotRepository) SaveBuildings(ctx context.Context, buildings []domain.Building) error {
	data, err := json.Marshal(buildings)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, keyBuildings, data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to save building snapshot", zap.Error(err))
		return fmt.Errorf("snapshot set error: %w", err)
	}

	s.logger.Debug("Building snapshot saved", zap.Int("count", len(buildings)))
	return nil
}

func (s *snapshotRepository) WarmupAt(ctx context.Context) (time.Time, error) {
	val, err := s.client.Get(ctx, keyWarmupAt).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("warmup get error: %w", err)
	}

	at, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse warmup time: %w", err)
	}
	return at, nil
}

func (s *snapshotRepository) MarkWarmup(ctx context.Context, at time.Time) error {
	if err := s.client.Set(ctx, keyWarmupAt, at.Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("warmup set error: %w", err)
	}
	return nil
}

func (s *snapshotRepository) UserHash(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, keyUserHash).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("user hash get error: %w", err)
	}
	return val, nil
}

func (s *snapshotRepository) SaveUserHash(ctx context.Context, hash string) error {
	// идентификатор устройства живёт дольше снимка, TTL не ставим
	if err := s.client.Set(ctx, keyUserHash, hash, 0).Err(); err != nil {
		return fmt.Errorf("user hash set error: %w", err)
	}
	return nil
}
