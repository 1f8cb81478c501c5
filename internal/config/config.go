package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("whisper.model_size", "medium.en")
	v.SetDefault("whisper.device", "auto")
	v.SetDefault("whisper.compute_type", "")
	v.SetDefault("whisper.language", "en")
	v.SetDefault("audio.normalizer", "loudnorm")
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("speaker.you_name", "You")
	v.SetDefault("speaker.other_on", "left")
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables
func NewConfigurationFromEnv() (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	// Set up environment variable mapping
	v.SetEnvPrefix("CALLSCRIBE")
	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("whisper.model_size", "WHISPER_MODEL_SIZE")
	v.BindEnv("whisper.device", "WHISPER_DEVICE")
	v.BindEnv("whisper.compute_type", "WHISPER_COMPUTE_TYPE")
	v.BindEnv("whisper.language", "WHISPER_LANGUAGE")
	v.BindEnv("audio.normalizer", "AUDIO_NORMALIZER")
	v.BindEnv("audio.sample_rate", "AUDIO_SAMPLE_RATE")
	v.BindEnv("speaker.you_name", "SPEAKER_YOU_NAME")
	v.BindEnv("speaker.other_on", "SPEAKER_OTHER_ON")

	return &Configuration{viper: v}, nil
}

// Set overrides a configuration value, taking precedence over file and
// environment sources. Used by the CLI to apply command-line flags.
func (c *Configuration) Set(key string, value interface{}) {
	c.viper.Set(key, value)
}

// GetModelSize returns the configured whisper model size
func (c *Configuration) GetModelSize() string {
	return c.viper.GetString("whisper.model_size")
}

// GetDevice returns the configured recognition device (auto, cpu or cuda)
func (c *Configuration) GetDevice() string {
	return c.viper.GetString("whisper.device")
}

// GetComputeType returns the configured compute type, empty for automatic selection
func (c *Configuration) GetComputeType() string {
	return c.viper.GetString("whisper.compute_type")
}

// GetLanguage returns the configured recognition language
func (c *Configuration) GetLanguage() string {
	return c.viper.GetString("whisper.language")
}

// GetNormalizer returns the per-channel loudness normalizer (loudnorm, dynaudnorm or none)
func (c *Configuration) GetNormalizer() string {
	return c.viper.GetString("audio.normalizer")
}

// GetSampleRate returns the extraction sample rate in Hz
func (c *Configuration) GetSampleRate() int {
	return c.viper.GetInt("audio.sample_rate")
}

// GetYouName returns the label for the local party's channel
func (c *Configuration) GetYouName() string {
	return c.viper.GetString("speaker.you_name")
}

// GetOtherOn returns which channel carries the non-you party (left or right)
func (c *Configuration) GetOtherOn() string {
	return c.viper.GetString("speaker.other_on")
}
