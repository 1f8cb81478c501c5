package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"callscribe/internal/app"
	"callscribe/internal/config"
	"callscribe/internal/logger"
)

func newRootCommand() *cobra.Command {
	var (
		inputPath   string
		outputPath  string
		configPath  string
		modelSize   string
		device      string
		computeType string
		normalizer  string
		otherOn     string
		youName     string
		otherName   string
		verbose     bool
	)

	rootCmd := &cobra.Command{
		Use:           "callscribe",
		Short:         "Transcribe a two-party call recording into a speaker-labeled LRC dialogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(configPath)
			if err != nil {
				return err
			}

			// Flags override file and environment configuration
			if cmd.Flags().Changed("model") {
				cfg.Set("whisper.model_size", modelSize)
			}
			if cmd.Flags().Changed("device") {
				cfg.Set("whisper.device", device)
			}
			if cmd.Flags().Changed("compute-type") {
				cfg.Set("whisper.compute_type", computeType)
			}
			if cmd.Flags().Changed("normalize") {
				cfg.Set("audio.normalizer", normalizer)
			}
			if cmd.Flags().Changed("other-on") {
				cfg.Set("speaker.other_on", otherOn)
			}
			if cmd.Flags().Changed("you-name") {
				cfg.Set("speaker.you_name", youName)
			}

			if err := validateChoice("device", cfg.GetDevice(), "auto", "cpu", "cuda"); err != nil {
				return err
			}
			if err := validateChoice("normalize", cfg.GetNormalizer(), "loudnorm", "dynaudnorm", "none"); err != nil {
				return err
			}
			if err := validateChoice("other-on", cfg.GetOtherOn(), "left", "right"); err != nil {
				return err
			}

			return runTranscription(cfg, inputPath, outputPath, otherName, verbose)
		},
	}

	rootCmd.Flags().StringVar(&inputPath, "input", "", "Input stereo recording path (one party per channel)")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "Output .lrc path (default beside input)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&modelSize, "model", "medium.en", "Whisper model size (e.g. small.en, medium.en, large-v3)")
	rootCmd.Flags().StringVar(&device, "device", "auto", "Recognition device: auto, cpu or cuda")
	rootCmd.Flags().StringVar(&computeType, "compute-type", "", "faster-whisper compute type (default automatic)")
	rootCmd.Flags().StringVar(&normalizer, "normalize", "loudnorm", "Per-channel normalization: loudnorm, dynaudnorm or none")
	rootCmd.Flags().StringVar(&otherOn, "other-on", "left", "Which channel carries the non-you party: left or right")
	rootCmd.Flags().StringVar(&youName, "you-name", "You", "Label for your channel")
	rootCmd.Flags().StringVar(&otherName, "other-name", "", "Label for the other party (default parsed from filename)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.MarkFlagRequired("input")

	return rootCmd
}

// loadConfiguration builds the configuration from an explicit file when given,
// falling back to environment variables.
func loadConfiguration(configPath string) (*config.Configuration, error) {
	if configPath != "" {
		cfg, err := config.NewConfigurationFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.NewConfigurationFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

// validateChoice checks a value against an allowed set
func validateChoice(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid --%s value %q (allowed: %v)", name, value, allowed)
}

// runTranscription resolves speaker labels and paths, then drives one
// application run under signal-aware cancellation.
func runTranscription(cfg *config.Configuration, inputPath, outputPath, otherName string, verbose bool) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input not found: %s", inputPath)
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}

	otherLabel := otherName
	if otherLabel == "" {
		otherLabel = parseOtherParty(inputPath)
	}
	if otherLabel == "" {
		otherLabel = "Other"
	}

	zapLogger, err := logger.NewCLILogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.NewApplication(cfg, zapLogger)

	return application.Run(ctx, app.RunOptions{
		InputPath:  inputPath,
		OutputPath: outputPath,
		YouName:    cfg.GetYouName(),
		OtherName:  otherLabel,
		OtherOn:    cfg.GetOtherOn(),
	})
}
