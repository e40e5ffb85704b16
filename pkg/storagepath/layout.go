// Package storagepath resolves where raw downloads, HLS packages and logs live.
package storagepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hls-service/pkg/config"
)

// DirPerm is the mode new directories are created with.
const DirPerm os.FileMode = 0o755

// Layout holds the resolved storage roots.
type Layout struct {
	RawDir string
	HLSDir string
	LogDir string
}

// FromConfig derives the layout from configuration. LogDir is empty when
// logs go to stdout only.
func FromConfig(cfg *config.Config) Layout {
	l := Layout{
		RawDir: filepath.Clean(cfg.Storage.RawDir),
		HLSDir: filepath.Clean(cfg.Storage.HLSDir),
	}
	if cfg.Log.Output != "stdout" && cfg.Log.Filename != "" {
		l.LogDir = filepath.Dir(cfg.Log.Filename)
	}
	return l
}

// Dirs lists the configured directories, skipping empty ones.
func (l Layout) Dirs() []string {
	dirs := make([]string, 0, 3)
	for _, d := range []string{l.RawDir, l.HLSDir, l.LogDir} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// EnsureAll creates every directory that does not exist yet.
func (l Layout) EnsureAll() error {
	for _, d := range l.Dirs() {
		if err := os.MkdirAll(d, DirPerm); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// RawFile is the download destination for videoID.
func (l Layout) RawFile(videoID, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp4"
	}
	return filepath.Join(l.RawDir, videoID+"."+ext)
}

// PackageDir is the HLS output directory for videoID.
func (l Layout) PackageDir(videoID string) string {
	return filepath.Join(l.HLSDir, videoID)
}
