package resource

import (
	"testing"

	"hls-service/pkg/config"
	"hls-service/pkg/logger"
)

func TestFromConfigSelectsEnabled(t *testing.T) {
	cfg := config.Default()
	s := FromConfig(cfg, logger.Discard())
	if len(s.all()) != 0 {
		t.Errorf("defaults selected %d resources, want none", len(s.all()))
	}

	cfg.Redis.Enabled = true
	cfg.Kafka.Enabled = true
	cfg.Storage.Backend = "minio"
	s = FromConfig(cfg, logger.Discard())
	var names []string
	for _, r := range s.all() {
		names = append(names, r.Name())
	}
	if len(names) != 3 || names[0] != "redis" || names[1] != "kafka" || names[2] != "minio" {
		t.Errorf("resources = %v", names)
	}
}
