package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"hls-service/ddd/domain/entity"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

// objectPutter is the slice of *minio.Client used for publishing.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStorage uploads every file of a package to {prefix}/{videoID}/ in the bucket.
type MinioStorage struct {
	client    objectPutter
	bucket    string
	keyPrefix string
	logger    *logger.Logger
}

func NewMinioStorage(client *minio.Client, bucket, keyPrefix string, log *logger.Logger) *MinioStorage {
	return newMinioStorage(client, bucket, keyPrefix, log)
}

func newMinioStorage(client objectPutter, bucket, keyPrefix string, log *logger.Logger) *MinioStorage {
	return &MinioStorage{
		client:    client,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		logger:    log,
	}
}

// Publish uploads the package. Segments and media playlists go first so the
// master never points at objects that are not there yet.
func (s *MinioStorage) Publish(ctx context.Context, videoID string, pkg *entity.HLSPackage) (string, error) {
	master := filepath.Base(pkg.MasterPlaylist)
	ordered := make([]string, 0, len(pkg.Files))
	for _, f := range pkg.Files {
		if f != master {
			ordered = append(ordered, f)
		}
	}
	ordered = append(ordered, master)

	for _, rel := range ordered {
		key := s.objectKey(videoID, rel)
		if err := s.upload(ctx, filepath.Join(pkg.Dir, filepath.FromSlash(rel)), key); err != nil {
			return "", errno.ErrIOFailure.Wrap(err)
		}
	}
	s.logger.Info("HLS package uploaded", map[string]interface{}{
		"video_id": videoID,
		"bucket":   s.bucket,
		"objects":  len(ordered),
	})
	return s.objectKey(videoID, master), nil
}

func (s *MinioStorage) objectKey(videoID, rel string) string {
	if s.keyPrefix == "" {
		return path.Join(videoID, rel)
	}
	return path.Join(s.keyPrefix, videoID, rel)
}

func (s *MinioStorage) upload(ctx context.Context, localPath, objectKey string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local file failed: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("get file info failed: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, file, fileInfo.Size(), minio.PutObjectOptions{
		ContentType: getContentTypeFromExtension(objectKey),
	})
	if err != nil {
		s.logger.Error("Failed to upload object to MinIO", map[string]interface{}{
			"local_path": localPath,
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return fmt.Errorf("upload %s to minio failed: %w", objectKey, err)
	}
	return nil
}

// getContentTypeFromExtension maps HLS file extensions to content types
func getContentTypeFromExtension(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	case ".m4s":
		return "video/iso.segment"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
