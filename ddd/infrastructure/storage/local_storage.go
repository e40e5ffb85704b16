package storage

import (
	"context"
	"fmt"
	"os"

	"hls-service/ddd/domain/entity"
)

// LocalStorage serves packages straight from the HLS root; publishing only
// confirms the master playlist is in place.
type LocalStorage struct{}

func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

func (s *LocalStorage) Publish(ctx context.Context, videoID string, pkg *entity.HLSPackage) (string, error) {
	if _, err := os.Stat(pkg.MasterPlaylist); err != nil {
		return "", fmt.Errorf("master playlist: %w", err)
	}
	return pkg.PublicPath, nil
}
