package app

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"hls-service/ddd/application/dto"
	"hls-service/pkg/config"
	"hls-service/pkg/logger"
	"hls-service/pkg/storagepath"
)

// minAPIKeyLength is the shortest key the setup check accepts.
const minAPIKeyLength = 32

// DiagnosticsApp checks a deployment before it goes live.
type DiagnosticsApp interface {
	Run(ctx context.Context) *dto.DiagnosticsDTO
}

type diagnosticsAppImpl struct {
	cfg        *config.Config
	layout     storagepath.Layout
	runVersion func(ctx context.Context, binary string) (string, error)
	logger     *logger.Logger
}

func NewDiagnosticsApp(cfg *config.Config, log *logger.Logger) DiagnosticsApp {
	return &diagnosticsAppImpl{
		cfg:        cfg,
		layout:     storagepath.FromConfig(cfg),
		runVersion: encoderVersion,
		logger:     log,
	}
}

func (a *diagnosticsAppImpl) Run(ctx context.Context) *dto.DiagnosticsDTO {
	report := &dto.DiagnosticsDTO{MaxScore: 3}
	for _, check := range []dto.CheckDTO{a.checkAPIKey(), a.checkCORS(), a.checkDirectories()} {
		if check.Status == dto.CheckPass {
			report.Score++
		}
		report.Checks = append(report.Checks, check)
	}
	report.Checks = append(report.Checks, a.checkEncoder(ctx))

	for _, c := range report.Checks {
		a.logger.Infof("Setup check %s: %s", c.Name, c.Status)
	}
	return report
}

func (a *diagnosticsAppImpl) checkAPIKey() dto.CheckDTO {
	check := dto.CheckDTO{Name: "api_key", Status: dto.CheckFail}
	key := a.cfg.API.Key
	switch {
	case key == "":
		check.Details = append(check.Details, "API key is empty")
	case key == config.PlaceholderAPIKey:
		check.Details = append(check.Details, "Using default placeholder API key")
	case len(key) < minAPIKeyLength:
		check.Details = append(check.Details, fmt.Sprintf("API key is too short (minimum %d characters recommended)", minAPIKeyLength))
	default:
		check.Status = dto.CheckPass
		return check
	}
	check.Hints = append(check.Hints, "Generate a secure API key with: openssl rand -hex 32")
	if generated, err := GenerateAPIKey(); err == nil {
		check.Hints = append(check.Hints, "Or use this one: "+generated)
	}
	return check
}

func (a *diagnosticsAppImpl) checkCORS() dto.CheckDTO {
	check := dto.CheckDTO{Name: "cors", Status: dto.CheckPass}
	origins := a.cfg.API.AllowedOrigins
	if len(origins) == 0 {
		check.Details = []string{"No CORS allowed; only same-origin requests are accepted"}
		return check
	}
	for _, o := range origins {
		if o == "*" {
			check.Status = dto.CheckFail
			check.Details = []string{"Wildcard (*) allows any origin to access the API"}
			check.Hints = []string{"Specify exact origins, e.g. api.allowed_origins: [https://web-a.example.com]"}
			return check
		}
	}
	for _, o := range origins {
		check.Details = append(check.Details, "allowed origin: "+o)
	}
	return check
}

func (a *diagnosticsAppImpl) checkDirectories() dto.CheckDTO {
	check := dto.CheckDTO{Name: "directories", Status: dto.CheckPass}
	for _, dir := range a.layout.Dirs() {
		_, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(dir, storagepath.DirPerm); err != nil {
				check.Status = dto.CheckFail
				check.Details = append(check.Details, fmt.Sprintf("%s: cannot create: %v", dir, err))
				continue
			}
			check.Details = append(check.Details, dir+": created")
			continue
		}
		if err := writable(dir); err != nil {
			check.Status = dto.CheckFail
			check.Details = append(check.Details, fmt.Sprintf("%s: NOT writable: %v", dir, err))
			continue
		}
		check.Details = append(check.Details, dir+": writable")
	}
	if check.Status == dto.CheckFail {
		check.Hints = []string{"Make the directories writable by the service user, e.g. chmod -R 775 videos hls logs"}
	}
	return check
}

func (a *diagnosticsAppImpl) checkEncoder(ctx context.Context) dto.CheckDTO {
	bin := a.cfg.Transcode.FFmpeg.BinaryPath
	check := dto.CheckDTO{Name: "encoder", Status: dto.CheckPass}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	version, err := a.runVersion(ctx, bin)
	if err != nil {
		check.Status = dto.CheckFail
		check.Details = []string{fmt.Sprintf("FFmpeg not found at %s: %v", bin, err)}
		check.Hints = []string{"Install FFmpeg (e.g. apt install -y ffmpeg) and set transcode.ffmpeg.binary_path"}
		return check
	}
	check.Details = []string{"location: " + bin, "version: " + version}
	return check
}

// GenerateAPIKey returns 32 random bytes hex encoded.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// writable creates and removes a hidden probe file in dir.
func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}

// encoderVersion runs "<binary> -version" and returns the first output line.
func encoderVersion(ctx context.Context, binary string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, "-version").CombinedOutput()
	if err != nil {
		return "", err
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return sc.Text(), nil
	}
	return "", nil
}
