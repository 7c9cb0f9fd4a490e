package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gasfresco/reservation-service/internal/reservation"
	"github.com/gasfresco/reservation-service/pkg/cache"
)

const (
	lockTTL       = 5 * time.Second
	lockAttempts  = 10
	retryInterval = 100 * time.Millisecond
)

// RedisLocker takes a distributed lock per key so multiple service instances
// serialize mutations on the same lot.
type RedisLocker struct {
	cache *cache.RedisClient
}

func NewRedisLocker(c *cache.RedisClient) *RedisLocker {
	return &RedisLocker{cache: c}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()

	for i := 0; i < lockAttempts; i++ {
		ok, err := l.cache.AcquireLock(ctx, key, token, lockTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: acquire lock: %v", reservation.ErrDependencyUnavailable, err)
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = l.cache.ReleaseLock(releaseCtx, key, token)
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return nil, fmt.Errorf("%w: lock %s held too long", reservation.ErrDependencyUnavailable, key)
}
