package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
	"hls-service/pkg/config"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
	"hls-service/pkg/storagepath"
)

// FFmpegExecutor implements gateway.Transcoder with one local ffmpeg run per
// package. All renditions are produced by a single invocation.
type FFmpegExecutor struct {
	binary      string
	probeBinary string
	logger      *logger.Logger
}

func NewFFmpegExecutor(cfg config.FFmpegConfig, log *logger.Logger) *FFmpegExecutor {
	binary := strings.TrimSpace(cfg.BinaryPath)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegExecutor{
		binary:      binary,
		probeBinary: strings.TrimSpace(cfg.ProbeBinaryPath),
		logger:      log,
	}
}

// Convert runs ffmpeg and checks the master playlist it leaves behind.
func (e *FFmpegExecutor) Convert(ctx context.Context, sourcePath, outputDir, videoID string, ladder vo.Ladder, opts vo.HLSOptions) (*entity.HLSPackage, error) {
	if err := ladder.Validate(); err != nil {
		return nil, errno.ErrTranscodeFailed.Wrap(err)
	}
	if err := os.MkdirAll(outputDir, storagepath.DirPerm); err != nil {
		return nil, errno.ErrIOFailure.Wrap(fmt.Errorf("create output dir: %w", err))
	}

	hasAudio := e.probeAudio(ctx, sourcePath)
	args := BuildArgs(sourcePath, outputDir, ladder, opts, hasAudio)

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	e.logger.Info("Executing FFmpeg command")
	e.logger.Infof("Command: %s %s", e.binary, strings.Join(args, " "))

	cmd := exec.CommandContext(runCtx, e.binary, args...)
	cmd.WaitDelay = 5 * time.Second
	output, err := cmd.CombinedOutput()
	e.logger.Infof("FFmpeg output:\n%s", strings.TrimRight(string(output), "\n"))
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", opts.Timeout, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e.logger.Errorf("FFmpeg failed with return code: %d", exitErr.ExitCode())
		}
		return nil, errno.ErrTranscodeFailed.Wrap(fmt.Errorf("%w\n%s", err, tail(output, 20)))
	}

	master := filepath.Join(outputDir, opts.Master())
	variants, err := readMaster(master)
	if err != nil {
		e.logger.Errorf("Master playlist not found: %s (%v)", master, err)
		return nil, errno.ErrTranscodeFailed.Wrap(err)
	}
	if len(variants) != len(ladder) {
		return nil, errno.ErrTranscodeFailed.Wrap(fmt.Errorf("master playlist lists %d variants, want %d", len(variants), len(ladder)))
	}

	pkg := &entity.HLSPackage{
		Dir:            outputDir,
		MasterPlaylist: master,
		PublicPath:     videoID + "/" + opts.Master(),
	}
	for _, v := range variants {
		pkg.Variants = append(pkg.Variants, v.URI)
	}
	if pkg.Files, err = listFiles(outputDir); err != nil {
		return nil, errno.ErrIOFailure.Wrap(err)
	}
	return pkg, nil
}

// BuildArgs renders the ffmpeg argument list. The filter graph splits the
// video once per rendition and scales each branch to its height, keeping the
// aspect ratio with an even width.
func BuildArgs(sourcePath, outputDir string, ladder vo.Ladder, opts vo.HLSOptions, hasAudio bool) []string {
	n := len(ladder)

	var graph strings.Builder
	graph.WriteString("[0:v]split=" + strconv.Itoa(n))
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&graph, "[v%d]", i)
	}
	for i, r := range ladder {
		fmt.Fprintf(&graph, ";[v%d]scale=-2:%d:flags=lanczos,setsar=1[v%dout]", i+1, r.Height, i+1)
	}

	args := []string{"-y", "-i", sourcePath, "-filter_complex", graph.String()}
	for i := 1; i <= n; i++ {
		args = append(args, "-map", fmt.Sprintf("[v%dout]", i))
		if hasAudio {
			args = append(args, "-map", "0:a?")
		}
	}

	args = append(args, "-c:v", valueOr(opts.VideoCodec, "libx264"), "-preset", valueOr(opts.VideoPreset, "faster"))
	if opts.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(opts.Threads))
	}
	if hasAudio {
		args = append(args, "-c:a", valueOr(opts.AudioCodec, "aac"), "-b:a", valueOr(opts.AudioBitrate, "64k"))
		if opts.AudioSampleRate > 0 {
			args = append(args, "-ar", strconv.Itoa(opts.AudioSampleRate))
		}
	}

	streams := make([]string, 0, n)
	for i, r := range ladder {
		idx := strconv.Itoa(i)
		args = append(args,
			"-b:v:"+idx, r.Bitrate,
			"-maxrate:v:"+idx, r.MaxRate,
			"-bufsize:v:"+idx, r.BufSize,
		)
		if hasAudio {
			streams = append(streams, "v:"+idx+",a:"+idx)
		} else {
			streams = append(streams, "v:"+idx)
		}
	}

	args = append(args,
		"-var_stream_map", strings.Join(streams, " "),
		"-master_pl_name", opts.Master(),
		"-f", "hls",
		"-hls_time", strconv.Itoa(opts.SegmentDuration),
		"-hls_list_size", strconv.Itoa(opts.ListSize),
		"-hls_segment_filename", filepath.Join(outputDir, "stream_%v_%03d.ts"),
		filepath.Join(outputDir, "stream_%v.m3u8"),
	)
	return args
}

// probeAudio asks ffprobe whether the source carries an audio stream. Without
// a probe binary, or when probing fails, audio is assumed present; the
// optional "0:a?" maps keep that safe for most sources.
func (e *FFmpegExecutor) probeAudio(ctx context.Context, sourcePath string) bool {
	if e.probeBinary == "" {
		return true
	}
	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	cmd := exec.CommandContext(probeCtx, e.probeBinary,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "csv=p=0",
		sourcePath,
	)
	out, err := cmd.Output()
	if err != nil {
		e.logger.Warnf("ffprobe failed, assuming audio is present source=%s error=%v", sourcePath, err)
		return true
	}
	return strings.TrimSpace(string(out)) != ""
}

func readMaster(path string) ([]Variant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("master playlist %s is empty", path)
	}
	return ParseMaster(f)
}

func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	return files, err
}

func tail(output []byte, lines int) string {
	parts := bytes.Split(bytes.TrimRight(output, "\n"), []byte("\n"))
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}
	return string(bytes.Join(parts, []byte("\n")))
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
