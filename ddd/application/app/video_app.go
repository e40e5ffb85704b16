package app

import (
	"context"
	"time"

	"hls-service/ddd/application/cqe"
	"hls-service/ddd/application/dto"
	"hls-service/ddd/domain/gateway"
	"hls-service/ddd/domain/service"
	"hls-service/pkg/logger"
	"hls-service/pkg/metrics"
)

// sweepLockName names the lock shared by every replica's retention sweep.
const sweepLockName = "retention-sweep"

type VideoApp interface {
	// ProcessVideo runs one conversion to completion. The request context is
	// only used for its values; cancelling it does not abort the job.
	ProcessVideo(ctx context.Context, req *cqe.ProcessVideoReq) *dto.ProcessResultDTO
	// CleanupOldVideos runs the retention sweep with the configured age and
	// returns how many entries were removed.
	CleanupOldVideos(ctx context.Context) (int, error)
}

// VideoAppOptions retention settings and optional collaborators. Reporter and
// Locker may be nil.
type VideoAppOptions struct {
	MaxAgeDays  int
	LockTTL     time.Duration
	ReportTimeout time.Duration
	Reporter    gateway.TranscodeResultReporter
	Locker      gateway.SweepLocker
}

type videoAppImpl struct {
	pipeline  service.PipelineService
	retention service.RetentionService
	opts      VideoAppOptions
	logger    *logger.Logger
}

func NewVideoApp(pipeline service.PipelineService, retention service.RetentionService, opts VideoAppOptions, log *logger.Logger) VideoApp {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Minute
	}
	if opts.ReportTimeout <= 0 {
		opts.ReportTimeout = 10 * time.Second
	}
	return &videoAppImpl{
		pipeline:  pipeline,
		retention: retention,
		opts:      opts,
		logger:    log,
	}
}

func (a *videoAppImpl) ProcessVideo(ctx context.Context, req *cqe.ProcessVideoReq) *dto.ProcessResultDTO {
	ctx = context.WithoutCancel(ctx)
	job, result := a.pipeline.ProcessVideo(ctx, req.VideoURL, req.PostID.Int64())
	metrics.JobsTotal.WithLabelValues(result.Status).Inc()

	if a.opts.Reporter != nil {
		rctx, cancel := context.WithTimeout(ctx, a.opts.ReportTimeout)
		if err := a.opts.Reporter.Report(rctx, job, result); err != nil {
			a.logger.Warnf("Failed to report result for %s: %v", job.VideoID(), err)
		}
		cancel()
	}
	return dto.NewProcessResultDTO(result)
}

func (a *videoAppImpl) CleanupOldVideos(ctx context.Context) (int, error) {
	if a.opts.Locker != nil {
		release, ok, err := a.opts.Locker.TryAcquire(ctx, sweepLockName, a.opts.LockTTL)
		if err != nil {
			return 0, err
		}
		if !ok {
			a.logger.Info("Cleanup skipped: another sweep is running")
			return 0, nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				a.logger.Warnf("Failed to release cleanup lock: %v", err)
			}
		}()
	}

	removed, err := a.retention.Sweep(ctx, a.opts.MaxAgeDays)
	if err != nil {
		a.logger.Errorf("Cleanup finished with errors: %v", err)
	}
	a.logger.Infof("Cleanup completed: %d items deleted", removed)
	return removed, err
}
