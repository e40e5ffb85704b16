package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "api:\n  key: abc\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "abc" {
		t.Errorf("API.Key = %q", cfg.API.Key)
	}
	if cfg.Storage.RawDir != "./videos" || cfg.Storage.HLSDir != "./hls" || cfg.Storage.Backend != "local" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Public.HLSBaseURL != "http://localhost:8080/hls" {
		t.Errorf("HLSBaseURL = %q", cfg.Public.HLSBaseURL)
	}
	if cfg.Transcode.HLS.SegmentDuration != 6 || cfg.Transcode.HLS.ListSize != 0 {
		t.Errorf("HLS = %+v", cfg.Transcode.HLS)
	}
	if len(cfg.Transcode.Renditions) != 3 || cfg.Transcode.Renditions[0].Height != 240 {
		t.Errorf("Renditions = %+v", cfg.Transcode.Renditions)
	}
	if cfg.Cleanup.DeleteOriginal || cfg.Cleanup.MaxAgeDays != 30 || cfg.Cleanup.Interval != 24*time.Hour {
		t.Errorf("Cleanup = %+v", cfg.Cleanup)
	}
	if !cfg.Log.Verbose || cfg.Log.Filename != "./logs/api.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Transcode.FFmpeg.Timeout != 10*time.Minute || cfg.Download.Timeout != 300*time.Second {
		t.Errorf("timeouts ffmpeg=%s download=%s", cfg.Transcode.FFmpeg.Timeout, cfg.Download.Timeout)
	}
}

func TestLoadFileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
public:
  hls_base_url: https://cdn.example.com/hls/
transcode:
  hls:
    segment_duration: 4
  renditions:
    - { height: 720, bitrate: 2500k, maxrate: 2675k, bufsize: 3750k }
minio:
  access_key: legacy-id
  secret_key: legacy-secret
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Public.HLSBaseURL != "https://cdn.example.com/hls" {
		t.Errorf("trailing slash kept: %q", cfg.Public.HLSBaseURL)
	}
	if cfg.Transcode.HLS.SegmentDuration != 4 {
		t.Errorf("SegmentDuration = %d", cfg.Transcode.HLS.SegmentDuration)
	}
	if len(cfg.Transcode.Renditions) != 1 || cfg.Transcode.Renditions[0].Height != 720 {
		t.Errorf("Renditions = %+v", cfg.Transcode.Renditions)
	}
	if cfg.Minio.AccessKeyID != "legacy-id" || cfg.Minio.SecretAccessKey != "legacy-secret" {
		t.Errorf("Minio = %+v", cfg.Minio)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HLS_API_KEY", "from-env")
	t.Setenv("HLS_CLEANUP_MAX_AGE_DAYS", "7")
	cfg, err := Load(writeConfig(t, "api:\n  key: from-file\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "from-env" {
		t.Errorf("API.Key = %q, want from-env", cfg.API.Key)
	}
	if cfg.Cleanup.MaxAgeDays != 7 {
		t.Errorf("MaxAgeDays = %d, want 7", cfg.Cleanup.MaxAgeDays)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"segment duration", "transcode:\n  hls:\n    segment_duration: 0\n", "segment_duration"},
		{"duplicate heights", "transcode:\n  renditions:\n    - { height: 360, bitrate: 1k, maxrate: 1k, bufsize: 1k }\n    - { height: 360, bitrate: 2k, maxrate: 2k, bufsize: 2k }\n", "duplicated"},
		{"missing rate", "transcode:\n  renditions:\n    - { height: 360, bitrate: 1k }\n", "requires bitrate"},
		{"backend", "storage:\n  backend: s3\n", "storage.backend"},
		{"minio endpoint", "storage:\n  backend: minio\n", "minio.endpoint"},
		{"log output", "log:\n  output: syslog\n", "log.output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		path, env, want string
	}{
		{"/etc/hls.yaml", "prod", "/etc/hls.yaml"},
		{"", "", "configs/config.dev.yaml"},
		{"", "production", "configs/config.prod.yaml"},
		{"", "Staging", "configs/config.staging.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", tt.path)
			t.Setenv("CONFIG_ENV", tt.env)
			if got := ResolvePath(); got != tt.want {
				t.Errorf("ResolvePath() = %q, want %q", got, tt.want)
			}
		})
	}
}
