package lyrics

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"callscribe/internal/transcript"
)

// Writer renders a merged dialogue as an LRC lyrics file, one timestamped
// speaker-labeled line per segment.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new Writer instance
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		logger: logger,
	}
}

// FormatTimestamp renders a time in seconds as an LRC tag [MM:SS.CC] with
// unbounded minutes and rounded centiseconds. Negative times are clamped to
// zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0.0
	}
	totalCentis := int(math.Round(seconds * 100))
	minutes := totalCentis / 6000
	secs := totalCentis % 6000 / 100
	centis := totalCentis % 100
	return fmt.Sprintf("[%02d:%02d.%02d]", minutes, secs, centis)
}

// Render produces the full LRC document for the given segments, with optional
// title and artist header tags when non-empty.
func (w *Writer) Render(segments []transcript.Segment, title, artists string) string {
	var lines []string
	if title != "" {
		lines = append(lines, fmt.Sprintf("[ti:%s]", title))
	}
	if artists != "" {
		lines = append(lines, fmt.Sprintf("[ar:%s]", artists))
	}

	for _, seg := range segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Speaker"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", FormatTimestamp(seg.Start), speaker, strings.TrimSpace(seg.Text)))
	}

	return strings.Join(lines, "\n") + "\n"
}

// WriteFile renders the segments and writes them to the given path, creating
// parent directories as needed.
func (w *Writer) WriteFile(segments []transcript.Segment, outputPath, title, artists string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	content := w.Render(segments, title, artists)
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write lyrics file %s: %w", outputPath, err)
	}

	w.logger.Debug("wrote lyrics file",
		zap.String("path", outputPath),
		zap.Int("lines", len(segments)))

	return nil
}
