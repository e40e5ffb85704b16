package service

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VideoIDFunc names the artifacts of one job.
type VideoIDFunc func(postID int64, now time.Time) string

// NewVideoID returns video_{postID}_{unix}_{8 hex}. The random suffix keeps
// two submissions for the same post within one second apart.
func NewVideoID(postID int64, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("video_%d_%d_%s", postID, now.Unix(), suffix)
}

// ValidateVideoURL accepts absolute URLs with a scheme and a host.
func ValidateVideoURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty url")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("url %q is not absolute", raw)
	}
	return u, nil
}

// SourceExtension takes the file extension from the URL path, "mp4" when
// there is none. It only names the raw file.
func SourceExtension(u *url.URL) string {
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" || len(ext) > 5 || strings.ContainsAny(ext, `/\`) {
		return "mp4"
	}
	return strings.ToLower(ext)
}
