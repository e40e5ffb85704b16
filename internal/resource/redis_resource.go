package resource

import (
	"context"

	"hls-service/pkg/config"
	"hls-service/pkg/redisclient"
)

// RedisResource manages the lifecycle of the shared Redis client.
type RedisResource struct {
	cfg    config.RedisConfig
	client *redisclient.Client
}

func NewRedisResource(cfg config.RedisConfig) *RedisResource {
	return &RedisResource{cfg: cfg}
}

func (r *RedisResource) Name() string { return "redis" }

// Open establishes the Redis connection.
func (r *RedisResource) Open(ctx context.Context) error {
	if r.client != nil {
		return nil
	}
	client, err := redisclient.New(ctx, r.cfg)
	if err != nil {
		return err
	}
	r.client = client
	return nil
}

// Close tidies up the underlying Redis client.
func (r *RedisResource) Close() {
	if r.client != nil {
		_ = r.client.Close()
		r.client = nil
	}
}

// Client exposes the wrapped client.
func (r *RedisResource) Client() *redisclient.Client {
	return r.client
}
