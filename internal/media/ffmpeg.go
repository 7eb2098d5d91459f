// Package media wraps FFmpeg for audio the built-in decoders cannot read.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"readalong-editor/internal/config"
	"readalong-editor/internal/limiter"
	"readalong-editor/internal/logger"
)

// FFmpegService wraps FFmpeg commands for audio processing.
type FFmpegService struct {
	ffmpegPath string
}

// NewFFmpegService creates a new FFmpeg service with auto-detected paths.
func NewFFmpegService() *FFmpegService {
	paths := []string{
		"/opt/homebrew/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
		"ffmpeg",
	}

	ffmpegPath := "ffmpeg"
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			ffmpegPath = p
			break
		}
	}

	return NewFFmpegServiceWithPath(ffmpegPath)
}

// NewFFmpegServiceWithPath creates a new FFmpeg service with a custom path.
// An empty path falls back to auto-detection.
func NewFFmpegServiceWithPath(path string) *FFmpegService {
	if path == "" {
		return NewFFmpegService()
	}
	return &FFmpegService{ffmpegPath: path}
}

// CheckInstalled verifies FFmpeg is available.
func (s *FFmpegService) CheckInstalled() error {
	cmd := exec.Command(s.ffmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", s.ffmpegPath, err)
	}
	return nil
}

// GetPath returns the FFmpeg executable path.
func (s *FFmpegService) GetPath() string {
	return s.ffmpegPath
}

// transcodeArgs converts any input ffmpeg understands into 16-bit PCM WAV.
func transcodeArgs(inputPath, outputPath string) []string {
	return []string{
		"-nostdin",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(config.TranscodeSampleRate),
		"-ac", "2",
		"-f", "wav",
		"-y",
		outputPath,
	}
}

// TranscodeToWAV converts data (named name, for the input extension) into a
// WAV file in memory. The scratch files live in a temporary directory that is
// removed on every return path.
func (s *FFmpegService) TranscodeToWAV(ctx context.Context, name string, data []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "readalong-transcode-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "input"+filepath.Ext(name))
	outputPath := filepath.Join(dir, "output.wav")
	if err := os.WriteFile(inputPath, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write scratch input: %w", err)
	}

	logger.Info("FFmpeg: transcoding %s → WAV", filepath.Base(name))
	if err := s.run(ctx, transcodeArgs(inputPath, outputPath), "transcode"); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcoded audio: %w", err)
	}
	return out, nil
}

// run executes an FFmpeg command and returns any error.
func (s *FFmpegService) run(ctx context.Context, args []string, operation string) error {
	if err := limiter.AcquireCPUSlot(ctx); err != nil {
		return fmt.Errorf("ffmpeg %s: %w", operation, err)
	}
	defer limiter.ReleaseCPUSlot()

	ctx, cancel := context.WithTimeout(ctx, config.ExecTimeoutFFmpeg)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg %s: %w", operation, ctx.Err())
		}
		return fmt.Errorf("ffmpeg %s failed: %w\nOutput: %s", operation, err, tail(string(output), 20))
	}
	return nil
}

// tail keeps the last n lines of ffmpeg's banner-heavy output.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
