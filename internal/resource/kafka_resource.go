package resource

import (
	"context"

	"hls-service/pkg/config"
	"hls-service/pkg/kafka"
	"hls-service/pkg/logger"
)

type KafkaResource struct {
	cfg    config.KafkaConfig
	client *kafka.Client
	logger *logger.Logger
}

func NewKafkaResource(cfg config.KafkaConfig, log *logger.Logger) *KafkaResource {
	return &KafkaResource{cfg: cfg, logger: log}
}

func (r *KafkaResource) Name() string { return "kafka" }

// Open creates the producer and makes sure the events topic exists. A topic
// that cannot be created is logged; brokers with auto-creation still accept writes.
func (r *KafkaResource) Open(ctx context.Context) error {
	r.client = kafka.New(r.cfg, r.logger)
	if err := r.client.EnsureTopic(r.cfg.Topics.JobEvents, 1, 1); err != nil {
		r.logger.Warnf("Kafka topic check failed topic=%s: %v", r.cfg.Topics.JobEvents, err)
	}
	return nil
}

func (r *KafkaResource) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

func (r *KafkaResource) Client() *kafka.Client { return r.client }
