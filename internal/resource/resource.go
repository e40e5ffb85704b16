// Package resource opens the optional external clients the service runs with.
package resource

import (
	"context"
	"fmt"

	"hls-service/pkg/config"
	"hls-service/pkg/logger"
)

// Resource is an external client with a lifecycle.
type Resource interface {
	Name() string
	Open(ctx context.Context) error
	Close()
}

// Set opens resources in order and closes them in reverse.
type Set struct {
	Redis *RedisResource
	Kafka *KafkaResource
	Minio *MinioResource

	opened []Resource
	logger *logger.Logger
}

// FromConfig selects the resources enabled in cfg. Nothing is opened yet.
func FromConfig(cfg *config.Config, log *logger.Logger) *Set {
	s := &Set{logger: log}
	if cfg.Redis.Enabled {
		s.Redis = NewRedisResource(cfg.Redis)
	}
	if cfg.Kafka.Enabled {
		s.Kafka = NewKafkaResource(cfg.Kafka, log)
	}
	if cfg.Storage.Backend == "minio" {
		s.Minio = NewMinioResource(cfg.Minio, log)
	}
	return s
}

func (s *Set) all() []Resource {
	var rs []Resource
	if s.Redis != nil {
		rs = append(rs, s.Redis)
	}
	if s.Kafka != nil {
		rs = append(rs, s.Kafka)
	}
	if s.Minio != nil {
		rs = append(rs, s.Minio)
	}
	return rs
}

// Open opens every selected resource. On failure the ones already opened are closed.
func (s *Set) Open(ctx context.Context) error {
	for _, r := range s.all() {
		if err := r.Open(ctx); err != nil {
			s.Close()
			return fmt.Errorf("open %s: %w", r.Name(), err)
		}
		s.opened = append(s.opened, r)
		s.logger.Infof("Resource opened name=%s", r.Name())
	}
	return nil
}

// Close releases opened resources in reverse order.
func (s *Set) Close() {
	for i := len(s.opened) - 1; i >= 0; i-- {
		s.opened[i].Close()
	}
	s.opened = nil
}
