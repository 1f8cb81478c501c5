package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"callscribe/internal/audio"
	"callscribe/internal/config"
	"callscribe/internal/dialogue"
	"callscribe/internal/gpu"
	"callscribe/internal/lyrics"
	"callscribe/internal/performance"
	"callscribe/internal/recognizer"
)

// RunOptions carries the per-invocation parameters for one transcription run.
// Speaker labels arrive fully resolved; the CLI owns filename parsing and
// defaulting.
type RunOptions struct {
	InputPath  string
	OutputPath string
	YouName    string
	OtherName  string
	OtherOn    string // which channel carries the other party: left or right
}

// Application wires the transcription pipeline together: channel extraction,
// per-channel recognition, dialogue merging and lyrics output.
type Application struct {
	config    *config.Configuration
	logger    *zap.Logger
	extractor *audio.ChannelExtractor
	engine    *recognizer.Engine
	merger    *dialogue.Merger
	writer    *lyrics.Writer
	monitor   *performance.Monitor
}

// NewApplication creates a new application instance with all components initialized
func NewApplication(cfg *config.Configuration, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}

	detector := gpu.NewDetector(logger)

	return &Application{
		config:    cfg,
		logger:    logger,
		extractor: audio.NewChannelExtractor(logger),
		engine:    recognizer.NewEngine(logger, cfg, detector),
		merger:    dialogue.NewMergerWithLogger(logger),
		writer:    lyrics.NewWriter(logger),
		monitor:   performance.NewMonitor(logger),
	}
}

// Run executes the full pipeline for one recording: split the stereo input
// into per-party channels, transcribe each channel, merge the two transcripts
// into one dialogue and write the LRC file. Cancellation is honored between
// stages.
func (app *Application) Run(ctx context.Context, opts RunOptions) error {
	app.logger.Info("starting transcription run",
		zap.String("input", opts.InputPath),
		zap.String("output", opts.OutputPath))

	timer := app.monitor.StartStage("split_channels")
	split, err := app.extractor.SplitStereo(ctx, opts.InputPath, app.config.GetSampleRate(), app.config.GetNormalizer())
	if err != nil {
		return fmt.Errorf("failed to split audio channels: %w", err)
	}
	defer func() {
		if err := split.Cleanup(); err != nil {
			app.logger.Warn("failed to clean up temp directory", zap.Error(err))
		}
	}()
	app.monitor.EndStage(timer)

	leftLabel, rightLabel := opts.OtherName, opts.YouName
	if opts.OtherOn != "left" {
		leftLabel, rightLabel = opts.YouName, opts.OtherName
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	timer = app.monitor.StartStage("transcribe_left")
	app.logger.Info("transcribing left channel", zap.String("speaker", leftLabel))
	leftSegments, err := app.engine.Transcribe(ctx, split.LeftPath)
	if err != nil {
		return fmt.Errorf("failed to transcribe left channel: %w", err)
	}
	app.monitor.EndStage(timer)

	if err := ctx.Err(); err != nil {
		return err
	}

	timer = app.monitor.StartStage("transcribe_right")
	app.logger.Info("transcribing right channel", zap.String("speaker", rightLabel))
	rightSegments, err := app.engine.Transcribe(ctx, split.RightPath)
	if err != nil {
		return fmt.Errorf("failed to transcribe right channel: %w", err)
	}
	app.monitor.EndStage(timer)

	timer = app.monitor.StartStage("merge_dialogue")
	merged := app.merger.MergeDialogue(leftSegments, leftLabel, rightSegments, rightLabel)
	app.monitor.EndStage(timer)

	title := strings.TrimSuffix(filepath.Base(opts.InputPath), filepath.Ext(opts.InputPath))
	artists := fmt.Sprintf("%s & %s", leftLabel, rightLabel)

	if err := app.writer.WriteFile(merged, opts.OutputPath, title, artists); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	app.monitor.LogSummary()
	app.logger.Info("transcription run complete",
		zap.Int("dialogue_lines", len(merged)),
		zap.String("output", opts.OutputPath))

	return nil
}
