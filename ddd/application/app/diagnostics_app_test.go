package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hls-service/ddd/application/dto"
	"hls-service/pkg/config"
	"hls-service/pkg/logger"
	"hls-service/pkg/storagepath"
)

func newDiagnostics(t *testing.T, mutate func(*config.Config)) *diagnosticsAppImpl {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.API.Key = strings.Repeat("k", 64)
	cfg.Storage.RawDir = filepath.Join(root, "videos")
	cfg.Storage.HLSDir = filepath.Join(root, "hls")
	cfg.Log.Filename = filepath.Join(root, "logs", "api.log")
	cfg.Log.Output = "file"
	if mutate != nil {
		mutate(cfg)
	}
	return &diagnosticsAppImpl{
		cfg:    cfg,
		layout: storagepath.FromConfig(cfg),
		runVersion: func(ctx context.Context, binary string) (string, error) {
			return "ffmpeg version 6.1 Copyright (c) 2000-2023", nil
		},
		logger: logger.Discard(),
	}
}

func findCheck(t *testing.T, r *dto.DiagnosticsDTO, name string) dto.CheckDTO {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q missing", name)
	return dto.CheckDTO{}
}

func TestDiagnosticsAllPass(t *testing.T) {
	a := newDiagnostics(t, nil)
	r := a.Run(context.Background())
	if !r.Passed() || r.Score != 3 {
		t.Fatalf("report = %+v", r)
	}
	for _, dir := range a.layout.Dirs() {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func TestDiagnosticsAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		detail string
	}{
		{"empty", "", "API key is empty"},
		{"placeholder", config.PlaceholderAPIKey, "Using default placeholder API key"},
		{"short", "abc123", "API key is too short (minimum 32 characters recommended)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newDiagnostics(t, func(c *config.Config) { c.API.Key = tt.key })
			r := a.Run(context.Background())
			check := findCheck(t, r, "api_key")
			if check.Status != dto.CheckFail || check.Details[0] != tt.detail {
				t.Errorf("check = %+v", check)
			}
			if r.Passed() {
				t.Error("report passed with a weak key")
			}
			if len(check.Hints) != 2 || len(strings.TrimPrefix(check.Hints[1], "Or use this one: ")) != 64 {
				t.Errorf("hints = %v", check.Hints)
			}
		})
	}
}

func TestDiagnosticsCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		want    string
	}{
		{"same origin only", nil, dto.CheckPass},
		{"explicit", []string{"https://web-a.example.com"}, dto.CheckPass},
		{"wildcard", []string{"https://web-a.example.com", "*"}, dto.CheckFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newDiagnostics(t, func(c *config.Config) { c.API.AllowedOrigins = tt.origins })
			if got := findCheck(t, a.Run(context.Background()), "cors").Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDiagnosticsEncoderMissing(t *testing.T) {
	a := newDiagnostics(t, nil)
	a.runVersion = func(ctx context.Context, binary string) (string, error) {
		return "", errors.New("executable file not found in $PATH")
	}
	r := a.Run(context.Background())
	if findCheck(t, r, "encoder").Status != dto.CheckFail {
		t.Error("encoder check passed without an encoder")
	}
	if r.Score != 3 || r.Passed() {
		t.Errorf("score=%d passed=%v, want 3/false", r.Score, r.Passed())
	}
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateAPIKey()
	if len(a) != 64 || a == b {
		t.Errorf("keys %q %q", a, b)
	}
}
