package gateway

import (
	"context"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
)

// Transcoder turns a source file into a multi-rendition HLS package.
type Transcoder interface {
	// Convert writes the package for videoID into outputDir. It succeeds only
	// when the master playlist exists, is non-empty and lists one variant per
	// rendition.
	Convert(ctx context.Context, sourcePath, outputDir, videoID string, ladder vo.Ladder, opts vo.HLSOptions) (*entity.HLSPackage, error)
}
