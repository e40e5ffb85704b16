package gateway

import (
	"context"

	"hls-service/ddd/domain/entity"
)

// StorageGateway makes a finished package reachable under the public base URL.
type StorageGateway interface {
	// Publish returns the object path the public URL should point at.
	Publish(ctx context.Context, videoID string, pkg *entity.HLSPackage) (string, error)
}
