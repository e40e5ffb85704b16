package kafka

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"hls-service/pkg/config"
	"hls-service/pkg/logger"
)

// Client produces to the configured brokers. Writers are created lazily, one
// per topic, and shared.
type Client struct {
	brokers   []string
	clientID  string
	transport *kafka.Transport
	writers   sync.Map // topic -> *kafka.Writer
	log       *logger.Logger
}

// New prepares a producer client. No connection is made until the first write.
func New(cfg config.KafkaConfig, log *logger.Logger) *Client {
	c := &Client{
		brokers:  cfg.BootstrapServers,
		clientID: cfg.ClientID,
		transport: &kafka.Transport{
			ClientID:    cfg.ClientID,
			DialTimeout: 10 * time.Second,
		},
		log: log,
	}
	log.Infof("Kafka client opened brokers=%v client_id=%s", c.brokers, c.clientID)
	return c
}

func (c *Client) Close() {
	c.writers.Range(func(key, value interface{}) bool {
		if w, ok := value.(*kafka.Writer); ok {
			if err := w.Close(); err != nil {
				c.log.Warnf("Kafka writer close failed topic=%v: %v", key, err)
			}
		}
		return true
	})
	c.transport.CloseIdleConnections()
}

func (c *Client) Writer(topic string) *kafka.Writer {
	if v, ok := c.writers.Load(topic); ok {
		return v.(*kafka.Writer)
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(c.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Transport:              c.transport,
		AllowAutoTopicCreation: true,
	}
	actual, loaded := c.writers.LoadOrStore(topic, w)
	if loaded {
		_ = w.Close()
	}
	return actual.(*kafka.Writer)
}

func (c *Client) Produce(ctx context.Context, topic string, key, value []byte) error {
	w := c.Writer(topic)
	msg := kafka.Message{Key: key, Value: value, Time: time.Now()}
	return w.WriteMessages(ctx, msg)
}

// EnsureTopic creates the topic if it does not exist.
func (c *Client) EnsureTopic(topic string, numPartitions, replicationFactor int) error {
	if len(c.brokers) == 0 {
		return nil
	}
	conn, err := kafka.Dial("tcp", c.brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	cc, err := kafka.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer cc.Close()
	return cc.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
}
