package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
)

// EventJobFinished is the event name for every terminal job state.
const EventJobFinished = "hls.job.finished"

// JobEvent is the message value published per job.
type JobEvent struct {
	Event      string    `json:"event"`
	VideoID    string    `json:"video_id"`
	PostID     int64     `json:"post_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	HLSURL     *string   `json:"hls_url"`
	OccurredAt time.Time `json:"occurred_at"`
}

// producer is implemented by *kafka.Client.
type producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// KafkaReporter implements gateway.TranscodeResultReporter. Messages are keyed
// by post id so all events of one post land on the same partition.
type KafkaReporter struct {
	producer producer
	topic    string
	now      func() time.Time
}

func NewKafkaReporter(p producer, topic string) *KafkaReporter {
	return &KafkaReporter{producer: p, topic: topic, now: time.Now}
}

func (r *KafkaReporter) Report(ctx context.Context, job *entity.Job, result vo.ProcessResult) error {
	evt := JobEvent{
		Event:      EventJobFinished,
		VideoID:    result.VideoID,
		PostID:     job.PostID(),
		Status:     result.Status,
		Message:    result.Message,
		HLSURL:     result.HLSURL,
		OccurredAt: r.now().UTC(),
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return r.producer.Produce(ctx, r.topic, []byte(strconv.FormatInt(job.PostID(), 10)), value)
}
