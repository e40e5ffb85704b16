package app

import (
	"context"
	"fmt"

	appsvc "hls-service/ddd/application/app"
	"hls-service/ddd/domain/gateway"
	"hls-service/ddd/domain/service"
	"hls-service/ddd/domain/vo"
	"hls-service/ddd/infrastructure/downloader"
	"hls-service/ddd/infrastructure/event"
	"hls-service/ddd/infrastructure/executor"
	"hls-service/ddd/infrastructure/lock"
	"hls-service/ddd/infrastructure/storage"
	"hls-service/internal/resource"
	"hls-service/pkg/config"
	"hls-service/pkg/logger"
	"hls-service/pkg/storagepath"
)

// Container holds the assembled application for one process.
type Container struct {
	Config    *config.Config
	Layout    storagepath.Layout
	Resources *resource.Set
	VideoApp  appsvc.VideoApp
}

// NewContainer opens the enabled resources, creates the storage directories
// and wires the pipeline. Close releases what it opened.
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	ladder, err := LadderFromConfig(cfg.Transcode.Renditions)
	if err != nil {
		return nil, err
	}

	layout := storagepath.FromConfig(cfg)
	if err := layout.EnsureAll(); err != nil {
		return nil, err
	}

	resources := resource.FromConfig(cfg, log)
	if err := resources.Open(ctx); err != nil {
		return nil, err
	}

	var publisher gateway.StorageGateway = storage.NewLocalStorage()
	if resources.Minio != nil {
		publisher = storage.NewMinioStorage(resources.Minio.GetClient(), resources.Minio.GetBucketName(), cfg.Minio.KeyPrefix, log)
	}

	reporters := []gateway.TranscodeResultReporter{event.NewLogReporter(log)}
	if resources.Kafka != nil {
		reporters = append(reporters, event.NewKafkaReporter(resources.Kafka.Client(), cfg.Kafka.Topics.JobEvents))
	}

	var locker gateway.SweepLocker
	if resources.Redis != nil {
		locker = lock.NewRedisLocker(resources.Redis.Client())
	}

	pipeline := service.NewPipelineService(
		service.PipelineSettings{
			Layout:         layout,
			Ladder:         ladder,
			Options:        OptionsFromConfig(cfg.Transcode),
			PublicBaseURL:  cfg.Public.HLSBaseURL,
			DeleteOriginal: cfg.Cleanup.DeleteOriginal,
		},
		downloader.NewHTTPDownloader(cfg.Download, log),
		executor.NewFFmpegExecutor(cfg.Transcode.FFmpeg, log),
		publisher,
		nil,
		log,
	)

	videoApp := appsvc.NewVideoApp(pipeline, service.NewRetentionService(layout, log), appsvc.VideoAppOptions{
		MaxAgeDays: cfg.Cleanup.MaxAgeDays,
		LockTTL:    cfg.Cleanup.LockTTL,
		Reporter:   event.Fanout(reporters...),
		Locker:     locker,
	}, log)

	return &Container{
		Config:    cfg,
		Layout:    layout,
		Resources: resources,
		VideoApp:  videoApp,
	}, nil
}

// Close releases opened resources.
func (c *Container) Close() {
	c.Resources.Close()
}

// LadderFromConfig converts and validates the configured renditions.
func LadderFromConfig(renditions []config.RenditionConfig) (vo.Ladder, error) {
	ladder := make(vo.Ladder, 0, len(renditions))
	for _, r := range renditions {
		ladder = append(ladder, vo.Rendition{
			Height:  r.Height,
			Bitrate: r.Bitrate,
			MaxRate: r.MaxRate,
			BufSize: r.BufSize,
		})
	}
	if err := ladder.Validate(); err != nil {
		return nil, fmt.Errorf("transcode.renditions: %w", err)
	}
	return ladder, nil
}

// OptionsFromConfig collects the packaging and encoder settings.
func OptionsFromConfig(cfg config.TranscodeConfig) vo.HLSOptions {
	return vo.HLSOptions{
		SegmentDuration: cfg.HLS.SegmentDuration,
		ListSize:        cfg.HLS.ListSize,
		MasterName:      cfg.HLS.MasterName,
		VideoCodec:      cfg.FFmpeg.VideoCodec,
		VideoPreset:     cfg.FFmpeg.VideoPreset,
		AudioCodec:      cfg.FFmpeg.AudioCodec,
		AudioBitrate:    cfg.FFmpeg.AudioBitrate,
		AudioSampleRate: cfg.FFmpeg.AudioSampleRate,
		Threads:         cfg.FFmpeg.Threads,
		Timeout:         cfg.FFmpeg.Timeout,
	}
}
