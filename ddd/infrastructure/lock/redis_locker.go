package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// keyPrefix namespaces lock keys in redis.
const keyPrefix = "hls-service:lock:"

// lockClient is implemented by *redisclient.Client.
type lockClient interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) (bool, error)
}

// RedisLocker implements gateway.SweepLocker with SET NX PX and a
// token-checked release.
type RedisLocker struct {
	client lockClient
}

func NewRedisLocker(client lockClient) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error) {
	key := keyPrefix + name
	token := uuid.NewString()
	ok, err := l.client.TryLock(ctx, key, token, ttl)
	if err != nil || !ok {
		return nil, false, err
	}
	release := func(ctx context.Context) error {
		_, err := l.client.Unlock(ctx, key, token)
		return err
	}
	return release, true, nil
}
