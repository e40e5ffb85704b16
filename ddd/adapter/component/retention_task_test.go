package component

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"hls-service/ddd/application/cqe"
	"hls-service/ddd/application/dto"
	"hls-service/pkg/logger"
)

type countingApp struct {
	sweeps atomic.Int32
}

func (a *countingApp) ProcessVideo(ctx context.Context, req *cqe.ProcessVideoReq) *dto.ProcessResultDTO {
	return nil
}

func (a *countingApp) CleanupOldVideos(ctx context.Context) (int, error) {
	a.sweeps.Add(1)
	return 0, nil
}

func TestRetentionTaskSweepsOnInterval(t *testing.T) {
	app := &countingApp{}
	task := NewRetentionTask(app, 10*time.Millisecond, logger.Discard())
	if err := task.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for app.sweeps.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := task.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if n := app.sweeps.Load(); n < 2 {
		t.Fatalf("sweeps = %d, want >= 2", n)
	}

	after := app.sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	if app.sweeps.Load() != after {
		t.Error("sweep ran after Stop")
	}
	if err := task.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestRetentionTaskRejectsZeroInterval(t *testing.T) {
	task := NewRetentionTask(&countingApp{}, 0, logger.Discard())
	if err := task.Start(context.Background()); err == nil {
		t.Error("Start with zero interval succeeded")
	}
}
