package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"go.uber.org/zap"
)

const idempotencyKeyFmt = "idempotency:%s:%s"

// IdempotencyStore keeps replayable responses in redis and degrades to the
// database repository whenever redis is absent or failing.
type IdempotencyStore struct {
	client   *redis.Client
	fallback repository.IdempotencyRepository
	log      *zap.Logger
}

// NewIdempotencyStore creates a store. client may be nil.
func NewIdempotencyStore(client *redis.Client, fallback repository.IdempotencyRepository, log *zap.Logger) *IdempotencyStore {
	return &IdempotencyStore{client: client, fallback: fallback, log: log}
}

func cacheKey(key string, userID uuid.UUID) string {
	return fmt.Sprintf(idempotencyKeyFmt, userID, key)
}

func (s *IdempotencyStore) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	if s.client == nil {
		return s.fallback.GetByKey(ctx, key, userID)
	}

	data, err := s.client.Get(ctx, cacheKey(key, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Warn("redis idempotency lookup failed, using database", zap.Error(err))
		return s.fallback.GetByKey(ctx, key, userID)
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal(data, &ikey); err != nil {
		return nil, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return &ikey, nil
}

func (s *IdempotencyStore) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	if s.client == nil {
		return s.fallback.Create(ctx, ikey)
	}

	ttl := time.Until(ikey.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}

	data, err := json.Marshal(ikey)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	if err := s.client.SetNX(ctx, cacheKey(ikey.Key, ikey.UserID), data, ttl).Err(); err != nil {
		s.log.Warn("redis idempotency write failed, using database", zap.Error(err))
		return s.fallback.Create(ctx, ikey)
	}
	return nil
}

// DeleteExpired purges the database copy; redis expires its keys itself.
func (s *IdempotencyStore) DeleteExpired(ctx context.Context) (int64, error) {
	return s.fallback.DeleteExpired(ctx)
}

// RunJanitor purges expired database entries every interval until ctx ends
func (s *IdempotencyStore) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				s.log.Warn("failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				s.log.Debug("purged idempotency keys", zap.Int64("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}
