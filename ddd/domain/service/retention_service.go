package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hls-service/pkg/logger"
	"hls-service/pkg/metrics"
	"hls-service/pkg/storagepath"
)

// RetentionService deletes aged raw downloads and HLS packages.
type RetentionService interface {
	// Sweep removes entries whose mtime is older than maxAgeDays and returns
	// how many were removed. maxAgeDays <= 0 removes nothing. Entries that
	// cannot be removed are logged and skipped.
	Sweep(ctx context.Context, maxAgeDays int) (int, error)
}

type retentionServiceImpl struct {
	layout storagepath.Layout
	now    func() time.Time
	logger *logger.Logger
}

func NewRetentionService(layout storagepath.Layout, log *logger.Logger) RetentionService {
	return newRetentionService(layout, time.Now, log)
}

func newRetentionService(layout storagepath.Layout, now func() time.Time, log *logger.Logger) *retentionServiceImpl {
	return &retentionServiceImpl{layout: layout, now: now, logger: log}
}

type sweepRoot struct {
	label string
	dir   string
	match func(fs.FileMode) bool
	rm    func(string) error
}

func (r *retentionServiceImpl) Sweep(ctx context.Context, maxAgeDays int) (int, error) {
	if maxAgeDays <= 0 {
		return 0, nil
	}
	cutoff := r.now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)

	roots := []sweepRoot{
		{label: "raw", dir: r.layout.RawDir, match: fs.FileMode.IsRegular, rm: os.Remove},
		{label: "hls", dir: r.layout.HLSDir, match: fs.FileMode.IsDir, rm: os.RemoveAll},
	}

	removed := 0
	var errs []error
	for _, root := range roots {
		n, err := r.sweepRoot(ctx, root, cutoff)
		removed += n
		metrics.RetentionRemovedTotal.WithLabelValues(root.label).Add(float64(n))
		if err != nil {
			errs = append(errs, err)
		}
	}
	return removed, errors.Join(errs...)
}

func (r *retentionServiceImpl) sweepRoot(ctx context.Context, root sweepRoot, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(root.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", root.dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		if !root.match(info.Mode()) || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(root.dir, entry.Name())
		if err := root.rm(path); err != nil {
			r.logger.Errorf("Failed to delete %s: %v", path, err)
			continue
		}
		r.logger.Debugf("Deleted %s (modified %s)", path, info.ModTime().Format(logger.TimestampLayout))
		removed++
	}
	return removed, nil
}
