package event

import (
	"context"
	"errors"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/gateway"
	"hls-service/ddd/domain/vo"
	"hls-service/pkg/logger"
)

type fanoutReporter struct {
	reporters []gateway.TranscodeResultReporter
}

// Fanout reports to every non-nil reporter and joins their errors.
func Fanout(reporters ...gateway.TranscodeResultReporter) gateway.TranscodeResultReporter {
	r := &fanoutReporter{}
	for _, rep := range reporters {
		if rep != nil {
			r.reporters = append(r.reporters, rep)
		}
	}
	return r
}

func (r *fanoutReporter) Report(ctx context.Context, job *entity.Job, result vo.ProcessResult) error {
	var errs []error
	for _, rep := range r.reporters {
		if err := rep.Report(ctx, job, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogReporter writes one debug line per finished job.
type LogReporter struct {
	logger *logger.Logger
}

func NewLogReporter(log *logger.Logger) *LogReporter {
	return &LogReporter{logger: log}
}

func (r *LogReporter) Report(ctx context.Context, job *entity.Job, result vo.ProcessResult) error {
	fields := map[string]interface{}{
		"video_id": result.VideoID,
		"post_id":  job.PostID(),
		"status":   result.Status,
		"phase":    job.Phase().String(),
		"elapsed":  job.UpdatedAt().Sub(job.CreatedAt()).Round(time.Millisecond).String(),
	}
	r.logger.Debug("Job finished", fields)
	return nil
}
