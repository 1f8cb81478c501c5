package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// ChannelExtractor manages FFmpeg invocations that split a stereo call
// recording into two mono PCM WAV files, optionally normalizing loudness per
// channel so quiet parties transcribe as well as loud ones.
type ChannelExtractor struct {
	logger     *zap.Logger
	ffmpegPath string
}

// SplitResult holds the per-channel output of a stereo split. The caller owns
// the temp directory and should remove it with Cleanup once done.
type SplitResult struct {
	LeftPath  string
	RightPath string
	TempDir   string
}

// Cleanup removes the temporary directory holding the extracted channels
func (r *SplitResult) Cleanup() error {
	if r.TempDir == "" {
		return nil
	}
	return os.RemoveAll(r.TempDir)
}

// NewChannelExtractor creates a new ChannelExtractor instance
func NewChannelExtractor(logger *zap.Logger) *ChannelExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelExtractor{
		logger:     logger,
		ffmpegPath: "ffmpeg", // Default FFmpeg binary path
	}
}

// CheckFFmpeg verifies the ffmpeg binary is available on PATH
func (e *ChannelExtractor) CheckFFmpeg() error {
	if err := exec.Command(e.ffmpegPath, "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg is required but not available: %w", err)
	}
	return nil
}

// SplitStereo extracts the left and right channels of the input recording
// into two mono PCM WAV files at the given sample rate. The normalizer is one
// of "loudnorm", "dynaudnorm" or "none".
func (e *ChannelExtractor) SplitStereo(ctx context.Context, inputPath string, sampleRate int, normalizer string) (*SplitResult, error) {
	if err := e.CheckFFmpeg(); err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "callscribe_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	result := &SplitResult{
		LeftPath:  filepath.Join(tempDir, "left.wav"),
		RightPath: filepath.Join(tempDir, "right.wav"),
		TempDir:   tempDir,
	}

	channels := []struct {
		name    string
		channel string
		output  string
	}{
		{"left", "FL", result.LeftPath},
		{"right", "FR", result.RightPath},
	}

	for _, ch := range channels {
		e.logger.Info("extracting audio channel",
			zap.String("channel", ch.name),
			zap.String("normalizer", normalizer),
			zap.Int("sample_rate", sampleRate))

		if err := e.extractChannel(ctx, inputPath, ch.channel, ch.output, sampleRate, normalizer); err != nil {
			result.Cleanup()
			return nil, fmt.Errorf("failed to extract %s channel: %w", ch.name, err)
		}
	}

	return result, nil
}

// extractChannel runs one ffmpeg pass producing a single mono channel file
func (e *ChannelExtractor) extractChannel(ctx context.Context, inputPath, channel, outputPath string, sampleRate int, normalizer string) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-filter:a", buildChannelFilter(channel, normalizer),
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-c:a", "pcm_s16le",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.logger.Warn("ffmpeg channel extraction failed",
			zap.String("channel", channel),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return fmt.Errorf("ffmpeg error: %w (stderr: %s)", err, stderr.String())
	}

	e.logger.Debug("channel extraction complete",
		zap.String("channel", channel),
		zap.String("output", outputPath))

	return nil
}

// buildChannelFilter assembles the ffmpeg audio filter chain for one channel.
// The pan filter isolates the channel; the optional normalizer smooths
// loudness so both parties sit at comparable levels for recognition.
func buildChannelFilter(channel, normalizer string) string {
	base := fmt.Sprintf("pan=mono|c0=%s", channel)
	switch normalizer {
	case "loudnorm":
		// EBU R128 single-pass normalization targeting voice loudness
		return base + ",loudnorm=I=-16:TP=-1.5:LRA=11:print_format=none"
	case "dynaudnorm":
		// Dynamic normalizer to smooth out varying levels
		return base + ",dynaudnorm=f=200:g=31:m=15:s=10"
	default:
		return base
	}
}
