package gateway

import (
	"context"

	"hls-service/ddd/domain/entity"
)

// Downloader fetches a remote video to a local file.
type Downloader interface {
	// Fetch writes url to destPath, which must not exist yet. On failure no
	// file is left at destPath.
	Fetch(ctx context.Context, url, destPath string) (*entity.DownloadedAsset, error)
}
