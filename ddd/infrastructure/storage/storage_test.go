package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/minio/minio-go/v7"

	"hls-service/ddd/domain/entity"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

type putCall struct {
	bucket, key, contentType, body string
}

type fakePutter struct {
	calls  []putCall
	failOn string
}

func (f *fakePutter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if objectName == f.failOn {
		return minio.UploadInfo{}, errors.New("connection reset")
	}
	body, _ := io.ReadAll(reader)
	f.calls = append(f.calls, putCall{bucketName, objectName, opts.ContentType, string(body)})
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func writePackage(t *testing.T) *entity.HLSPackage {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "video_3_9")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"master.m3u8":     "#EXTM3U\n",
		"stream_0.m3u8":   "#EXTM3U\n",
		"stream_0_000.ts": "segment",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &entity.HLSPackage{
		Dir:            dir,
		MasterPlaylist: filepath.Join(dir, "master.m3u8"),
		PublicPath:     "video_3_9/master.m3u8",
		Files:          []string{"master.m3u8", "stream_0.m3u8", "stream_0_000.ts"},
	}
}

func TestMinioPublish(t *testing.T) {
	pkg := writePackage(t)
	putter := &fakePutter{}
	s := newMinioStorage(putter, "media", "/hls/", logger.Discard())

	key, err := s.Publish(context.Background(), "video_3_9", pkg)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if key != "hls/video_3_9/master.m3u8" {
		t.Errorf("key = %q", key)
	}
	want := []putCall{
		{"media", "hls/video_3_9/stream_0.m3u8", "application/vnd.apple.mpegurl", "#EXTM3U\n"},
		{"media", "hls/video_3_9/stream_0_000.ts", "video/mp2t", "segment"},
		{"media", "hls/video_3_9/master.m3u8", "application/vnd.apple.mpegurl", "#EXTM3U\n"},
	}
	if !reflect.DeepEqual(putter.calls, want) {
		t.Errorf("uploads = %+v\nwant %+v", putter.calls, want)
	}
}

func TestMinioPublishFailure(t *testing.T) {
	pkg := writePackage(t)
	putter := &fakePutter{failOn: "video_3_9/stream_0_000.ts"}
	s := newMinioStorage(putter, "media", "", logger.Discard())

	_, err := s.Publish(context.Background(), "video_3_9", pkg)
	if !errors.Is(err, errno.ErrIOFailure) {
		t.Fatalf("Publish() error = %v, want ErrIOFailure", err)
	}
	for _, c := range putter.calls {
		if c.key == "video_3_9/master.m3u8" {
			t.Error("master uploaded after a failed segment")
		}
	}
}

func TestLocalPublish(t *testing.T) {
	pkg := writePackage(t)
	key, err := NewLocalStorage().Publish(context.Background(), "video_3_9", pkg)
	if err != nil || key != "video_3_9/master.m3u8" {
		t.Errorf("Publish() = %q, %v", key, err)
	}

	pkg.MasterPlaylist = filepath.Join(pkg.Dir, "gone.m3u8")
	if _, err := NewLocalStorage().Publish(context.Background(), "video_3_9", pkg); err == nil {
		t.Error("Publish() without master should fail")
	}
}
