package recognizer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"callscribe/internal/config"
	"callscribe/internal/gpu"
	"callscribe/internal/transcript"
)

//go:embed assets/faster_whisper.py
var helperScript []byte

// Recognition decoding parameters. The VAD is tightened relative to the
// faster-whisper defaults so pauses between conversational turns are not
// glued into one segment.
const (
	beamSize        = 5
	vadThreshold    = 0.6
	vadMinSilenceMS = 220
	vadSpeechPadMS  = 80
)

// Engine runs the faster-whisper recognition model as a child process and
// converts its output into transcript segments.
type Engine struct {
	logger      *zap.Logger
	pythonPath  string
	modelSize   string
	device      string
	computeType string
	language    string
}

// NewEngine creates an Engine from the configuration, resolving the "auto"
// device and default compute type through GPU detection.
func NewEngine(logger *zap.Logger, cfg *config.Configuration, detector *gpu.Detector) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	device := detector.ResolveDevice(cfg.GetDevice())
	computeType := gpu.ResolveComputeType(device, cfg.GetComputeType())

	pythonPath := os.Getenv("CALLSCRIBE_PYTHON")
	if pythonPath == "" {
		pythonPath = "python3"
	}

	logger.Info("recognition engine configured",
		zap.String("model", cfg.GetModelSize()),
		zap.String("device", device),
		zap.String("compute_type", computeType))

	return &Engine{
		logger:      logger,
		pythonPath:  pythonPath,
		modelSize:   cfg.GetModelSize(),
		device:      device,
		computeType: computeType,
		language:    cfg.GetLanguage(),
	}
}

// engineWord mirrors one word token in the helper's JSON output
type engineWord struct {
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Word        string   `json:"word"`
	Probability *float64 `json:"probability"`
}

// engineSegment mirrors one raw recognition segment in the helper's JSON output
type engineSegment struct {
	Start        float64      `json:"start"`
	End          float64      `json:"end"`
	Text         string       `json:"text"`
	AvgLogprob   *float64     `json:"avg_logprob"`
	NoSpeechProb *float64     `json:"no_speech_prob"`
	Words        []engineWord `json:"words"`
}

// engineOutput mirrors the helper's top-level JSON output
type engineOutput struct {
	Language string          `json:"language"`
	Duration float64         `json:"duration"`
	Segments []engineSegment `json:"segments"`
}

// Transcribe recognizes one mono audio file and returns its transcript
// segments, word-aligned when the model supplied word timestamps.
func (e *Engine) Transcribe(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	scriptPath, err := e.writeHelperScript()
	if err != nil {
		return nil, err
	}
	defer os.Remove(scriptPath)

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", e.modelSize,
		"--device", e.device,
		"--compute-type", e.computeType,
		"--language", e.language,
		"--beam-size", fmt.Sprintf("%d", beamSize),
		"--vad-threshold", fmt.Sprintf("%g", vadThreshold),
		"--vad-min-silence-ms", fmt.Sprintf("%d", vadMinSilenceMS),
		"--vad-speech-pad-ms", fmt.Sprintf("%d", vadSpeechPadMS),
	}

	e.logger.Info("starting recognition",
		zap.String("audio", audioPath),
		zap.String("model", e.modelSize))

	cmd := exec.CommandContext(ctx, e.pythonPath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("recognition failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to run recognition helper: %w", err)
	}

	var parsed engineOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse recognition output: %w", err)
	}

	segments := buildSegments(parsed.Segments)

	e.logger.Info("recognition complete",
		zap.String("audio", audioPath),
		zap.String("language", parsed.Language),
		zap.Float64("duration_sec", parsed.Duration),
		zap.Int("segments", len(segments)))

	return segments, nil
}

// writeHelperScript materializes the embedded helper into a temp file unique
// to this invocation, so concurrent runs do not clobber each other's script.
func (e *Engine) writeHelperScript() (string, error) {
	file, err := os.CreateTemp("", "callscribe_faster_whisper_*.py")
	if err != nil {
		return "", fmt.Errorf("failed to create recognition helper script: %w", err)
	}
	if _, err := file.Write(helperScript); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write recognition helper script: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write recognition helper script: %w", err)
	}
	return file.Name(), nil
}
