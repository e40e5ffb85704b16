package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
)

type captured struct {
	topic      string
	key, value []byte
}

type fakeProducer struct{ msgs []captured }

func (f *fakeProducer) Produce(ctx context.Context, topic string, key, value []byte) error {
	f.msgs = append(f.msgs, captured{topic, key, value})
	return nil
}

func TestKafkaReporter(t *testing.T) {
	p := &fakeProducer{}
	r := NewKafkaReporter(p, "hls.job.events")
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	job := entity.NewJob("video_77_1_abcd", "https://x.example/a.mp4", 77, time.Now())
	if err := r.Report(context.Background(), job, vo.Succeeded("video_77_1_abcd", "https://cdn.example/hls/video_77_1_abcd/master.m3u8")); err != nil {
		t.Fatal(err)
	}
	if err := r.Report(context.Background(), job, vo.Failed("video_77_1_abcd", "Failed to download video")); err != nil {
		t.Fatal(err)
	}
	if len(p.msgs) != 2 {
		t.Fatalf("produced %d messages", len(p.msgs))
	}

	var ok, failed map[string]interface{}
	if err := json.Unmarshal(p.msgs[0].value, &ok); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(p.msgs[1].value, &failed); err != nil {
		t.Fatal(err)
	}
	if p.msgs[0].topic != "hls.job.events" || string(p.msgs[0].key) != "77" {
		t.Errorf("topic/key = %s/%s", p.msgs[0].topic, p.msgs[0].key)
	}
	if ok["status"] != "success" || ok["hls_url"] != "https://cdn.example/hls/video_77_1_abcd/master.m3u8" || ok["occurred_at"] != "2024-01-02T03:04:05Z" {
		t.Errorf("success event = %v", ok)
	}
	if v, present := failed["hls_url"]; !present || v != nil {
		t.Errorf("failed event hls_url = %v (present %v), want null", v, present)
	}
	if failed["post_id"] != float64(77) || failed["event"] != EventJobFinished {
		t.Errorf("failed event = %v", failed)
	}
}
