package component

import (
	"context"
	"errors"
	"sync"
	"time"

	"hls-service/ddd/application/app"
	"hls-service/pkg/logger"
)

// RetentionTask runs the retention sweep on a fixed interval.
type RetentionTask struct {
	app      app.VideoApp
	interval time.Duration
	logger   *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

func NewRetentionTask(videoApp app.VideoApp, interval time.Duration, log *logger.Logger) *RetentionTask {
	return &RetentionTask{app: videoApp, interval: interval, logger: log}
}

func (t *RetentionTask) Name() string { return "retention-sweep" }

// Start launches the ticker loop. The first sweep runs one interval after start.
func (t *RetentionTask) Start(ctx context.Context) error {
	if t.interval <= 0 {
		return errors.New("retention interval must be positive")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return nil
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	go t.loop(ctx, t.done)
	t.logger.Infof("Retention sweep scheduled every %s", t.interval)
	return nil
}

func (t *RetentionTask) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.app.CleanupOldVideos(ctx); err != nil && ctx.Err() == nil {
				t.logger.Warnf("Scheduled cleanup failed: %v", err)
			}
		}
	}
}

// Stop cancels the loop and waits for a sweep in progress to return.
func (t *RetentionTask) Stop() error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
