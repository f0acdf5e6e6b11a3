package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"starmus/internal/config"
	"starmus/internal/core/domain"
	"strconv"
	"strings"
)

const (
	mp3FileName     = "distribution.mp3"
	wavFileName     = "archive.wav"
	decodedFileName = "waveform-source.wav"
	peaksFileName   = "waveform.json"
)

// Tools runs the external audio binaries. It implements both port.WaveformExtractor and port.Transcoder.
type Tools struct {
	config config.PipelineConfig
	logger *slog.Logger
}

// NewTools returns Tools
func NewTools(cfg config.PipelineConfig, logger *slog.Logger) *Tools {
	return &Tools{config: cfg, logger: logger}
}

// Extract decodes sourcePath to pcm and asks audiowaveform for 8 bit peaks as json.
// Working files are written next to sourcePath.
func (t *Tools) Extract(ctx context.Context, sourcePath string) ([]byte, error) {
	dir := filepath.Dir(sourcePath)
	decoded := filepath.Join(dir, decodedFileName)
	peaks := filepath.Join(dir, peaksFileName)

	if err := t.ffmpeg(ctx, "ffmpeg decode",
		"-i", sourcePath,
		"-vn",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		decoded,
	); err != nil {
		return nil, err
	}
	defer os.Remove(decoded)

	args := []string{
		"-i", decoded,
		"-o", peaks,
		"--pixels-per-second", strconv.Itoa(t.config.WaveformPixelsPerSecond),
		"--bits", "8",
	}
	cmd := exec.CommandContext(ctx, t.config.AudiowaveformBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("audiowaveform: %w: %s", err, strings.TrimSpace(string(output)))
	}

	data, err := os.ReadFile(peaks)
	if err != nil {
		return nil, fmt.Errorf("read waveform: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("audiowaveform produced invalid json")
	}
	return data, nil
}

// Transcode renders the distribution mp3 and a loudness normalized wav master into outDir.
func (t *Tools) Transcode(ctx context.Context, sourcePath string, outDir string) (*domain.TranscodeOutput, error) {
	output := &domain.TranscodeOutput{
		MP3Path: filepath.Join(outDir, mp3FileName),
		WAVPath: filepath.Join(outDir, wavFileName),
	}

	if err := t.ffmpeg(ctx, "ffmpeg mp3",
		"-i", sourcePath,
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", t.config.MP3Bitrate,
		output.MP3Path,
	); err != nil {
		return nil, err
	}

	loudnorm := fmt.Sprintf("loudnorm=I=%s:TP=-1.5:LRA=11", strconv.FormatFloat(t.config.LoudnessTarget, 'f', -1, 64))
	if err := t.ffmpeg(ctx, "ffmpeg master",
		"-i", sourcePath,
		"-vn",
		"-af", loudnorm,
		"-ar", "44100",
		"-c:a", "pcm_s16le",
		output.WAVPath,
	); err != nil {
		return nil, err
	}

	t.logger.Debug("transcode finished",
		slog.String("mp3", output.MP3Path),
		slog.String("wav", output.WAVPath))
	return output, nil
}

func (t *Tools) ffmpeg(ctx context.Context, step string, args ...string) error {
	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)
	cmd := exec.CommandContext(ctx, t.config.FFmpegBinary, full...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", step, err, strings.TrimSpace(string(output)))
	}
	return nil
}
