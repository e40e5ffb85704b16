package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
	"hls-service/pkg/logger"
)

type countingReporter struct {
	n   int
	err error
}

func (c *countingReporter) Report(ctx context.Context, job *entity.Job, result vo.ProcessResult) error {
	c.n++
	return c.err
}

func TestFanout(t *testing.T) {
	boom := errors.New("broker down")
	a := &countingReporter{err: boom}
	b := &countingReporter{}
	r := Fanout(a, nil, b, NewLogReporter(logger.Discard()))

	job := entity.NewJob("video_1_1", "https://x.example/a.mp4", 1, time.Now())
	err := r.Report(context.Background(), job, vo.Failed("video_1_1", "Invalid video URL"))
	if !errors.Is(err, boom) {
		t.Errorf("Report() error = %v, want %v", err, boom)
	}
	if a.n != 1 || b.n != 1 {
		t.Errorf("calls = %d, %d; every reporter must run", a.n, b.n)
	}
}
