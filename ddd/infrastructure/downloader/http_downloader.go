package downloader

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/pkg/config"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

// HTTPDownloader implements gateway.Downloader over plain HTTP(S).
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
	logger    *logger.Logger
}

// NewHTTPDownloader builds the client from download settings. Redirects are
// followed with the net/http default policy.
func NewHTTPDownloader(cfg config.DownloadConfig, log *logger.Logger) *HTTPDownloader {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via download.insecure_skip_verify
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &HTTPDownloader{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		userAgent: userAgent,
		logger:    log,
	}
}

// Fetch streams url into destPath. destPath must not exist. Any failure
// removes whatever was written.
func (d *HTTPDownloader) Fetch(ctx context.Context, url, destPath string) (asset *entity.DownloadedAsset, err error) {
	f, err := os.OpenFile(destPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errno.ErrDownloadFailed.Wrap(fmt.Errorf("create destination: %w", err))
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			if rmErr := os.Remove(destPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				d.logger.Warnf("Failed to remove partial download %s: %v", destPath, rmErr)
			}
		}
	}()

	size, err := d.copy(ctx, url, f)
	if err != nil {
		return nil, errno.ErrDownloadFailed.Wrap(err)
	}
	if err = f.Close(); err != nil {
		return nil, errno.ErrDownloadFailed.Wrap(fmt.Errorf("close destination: %w", err))
	}
	if size == 0 {
		err = errors.New("empty response body")
		return nil, errno.ErrDownloadFailed.Wrap(err)
	}
	return &entity.DownloadedAsset{Path: destPath, Size: size}, nil
}

func (d *HTTPDownloader) copy(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read body: %w", err)
	}
	return n, nil
}
