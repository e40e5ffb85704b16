package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/gateway"
	"hls-service/ddd/domain/vo"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
	"hls-service/pkg/metrics"
	"hls-service/pkg/storagepath"
)

// PipelineService runs download -> transcode -> publish for one video.
type PipelineService interface {
	// ProcessVideo never returns an error: every failure is folded into the
	// result. The job is returned for reporting.
	ProcessVideo(ctx context.Context, videoURL string, postID int64) (*entity.Job, vo.ProcessResult)
}

// PipelineSettings fixed per process.
type PipelineSettings struct {
	Layout         storagepath.Layout
	Ladder         vo.Ladder
	Options        vo.HLSOptions
	PublicBaseURL  string
	DeleteOriginal bool
}

type pipelineServiceImpl struct {
	settings   PipelineSettings
	downloader gateway.Downloader
	transcoder gateway.Transcoder
	storage    gateway.StorageGateway
	newID      VideoIDFunc
	now        func() time.Time
	logger     *logger.Logger
}

// NewPipelineService wires the pipeline. newID may be nil.
func NewPipelineService(settings PipelineSettings, downloader gateway.Downloader, transcoder gateway.Transcoder, storage gateway.StorageGateway, newID VideoIDFunc, log *logger.Logger) PipelineService {
	if newID == nil {
		newID = NewVideoID
	}
	settings.PublicBaseURL = strings.TrimRight(settings.PublicBaseURL, "/")
	return &pipelineServiceImpl{
		settings:   settings,
		downloader: downloader,
		transcoder: transcoder,
		storage:    storage,
		newID:      newID,
		now:        time.Now,
		logger:     log,
	}
}

func (p *pipelineServiceImpl) ProcessVideo(ctx context.Context, videoURL string, postID int64) (*entity.Job, vo.ProcessResult) {
	now := p.now()
	job := entity.NewJob(p.newID(postID, now), videoURL, postID, now)

	p.logger.Infof("Starting video processing for post ID: %d", postID)
	p.logger.Infof("Video URL: %s", videoURL)

	hlsURL, err := p.run(ctx, job)
	if err != nil {
		return job, p.fail(job, err)
	}
	p.advance(job, vo.PhaseSucceeded)
	return job, vo.Succeeded(job.VideoID(), hlsURL)
}

func (p *pipelineServiceImpl) run(ctx context.Context, job *entity.Job) (string, error) {
	p.advance(job, vo.PhaseValidating)
	u, err := ValidateVideoURL(job.VideoURL())
	if err != nil {
		return "", errno.ErrInvalidInput.Wrap(err)
	}

	p.advance(job, vo.PhaseDownloading)
	p.logger.Info("Downloading video...")
	start := time.Now()
	dest := p.settings.Layout.RawFile(job.VideoID(), SourceExtension(u))
	asset, err := p.downloader.Fetch(ctx, u.String(), dest)
	observePhase(vo.PhaseDownloading, start)
	if err != nil {
		return "", coded(err, errno.ErrDownloadFailed)
	}
	metrics.DownloadBytesTotal.Add(float64(asset.Size))
	p.logger.Infof("Video downloaded: %s", asset.Path)

	p.advance(job, vo.PhaseTranscoding)
	p.logger.Info("Converting to HLS format...")
	start = time.Now()
	pkg, err := p.transcoder.Convert(ctx, asset.Path, p.settings.Layout.PackageDir(job.VideoID()), job.VideoID(), p.settings.Ladder, p.settings.Options)
	observePhase(vo.PhaseTranscoding, start)
	if err != nil {
		// the raw file stays for inspection; the sweep reclaims it
		return "", coded(err, errno.ErrTranscodeFailed)
	}

	p.advance(job, vo.PhasePublishing)
	start = time.Now()
	objectPath, err := p.storage.Publish(ctx, job.VideoID(), pkg)
	observePhase(vo.PhasePublishing, start)
	if err != nil {
		return "", coded(err, errno.ErrIOFailure)
	}
	hlsURL := p.settings.PublicBaseURL + "/" + strings.TrimLeft(objectPath, "/")
	p.logger.Infof("HLS conversion completed: %s", hlsURL)

	if p.settings.DeleteOriginal {
		p.advance(job, vo.PhaseCleaningUp)
		if err := os.Remove(asset.Path); err != nil {
			p.logger.Errorf("Failed to delete original video %s: %v", asset.Path, err)
		} else {
			p.logger.Info("Original video deleted")
		}
	}
	return hlsURL, nil
}

func (p *pipelineServiceImpl) fail(job *entity.Job, err error) vo.ProcessResult {
	code := errno.From(err)
	detail := err.Error()
	var ce *errno.Error
	if errors.As(err, &ce) {
		detail = ce.Detail()
	}
	p.logger.Errorf("Error: %s", detail)
	job.Fail(code.Message)
	return vo.Failed(job.VideoID(), code.Message)
}

func (p *pipelineServiceImpl) advance(job *entity.Job, phase vo.Phase) {
	if err := job.Advance(phase); err != nil {
		p.logger.Warnf("%v", err)
		return
	}
	p.logger.Debugf("job %s phase=%s", job.VideoID(), phase)
}

// coded keeps an error that already carries a pipeline code and tags any
// other error with fallback.
func coded(err error, fallback *errno.Errno) error {
	var ce *errno.Error
	if errors.As(err, &ce) {
		return err
	}
	return fallback.Wrap(err)
}

func observePhase(phase vo.Phase, start time.Time) {
	metrics.PhaseDuration.WithLabelValues(phase.String()).Observe(time.Since(start).Seconds())
}
