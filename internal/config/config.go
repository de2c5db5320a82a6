package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config stores runtime configuration for a recording session.
type Config struct {
	Prompts PromptsConfig `mapstructure:"prompts" yaml:"prompts"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Audio   AudioConfig   `mapstructure:"audio" yaml:"audio"`
}

type PromptsConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Count      int    `mapstructure:"count" yaml:"count"`
	LenSoftMax int    `mapstructure:"len_soft_max" yaml:"len_soft_max"`
	Ordered    bool   `mapstructure:"ordered" yaml:"ordered"`
	Seed       int64  `mapstructure:"seed" yaml:"seed"`
}

type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

type AudioConfig struct {
	SampleRate      int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels        int    `mapstructure:"channels" yaml:"channels"`
	CaptureCommand  string `mapstructure:"capture_command" yaml:"capture_command"`
	InputFormat     string `mapstructure:"input_format" yaml:"input_format"`
	InputDevice     string `mapstructure:"input_device" yaml:"input_device"`
	PlaybackCommand string `mapstructure:"playback_command" yaml:"playback_command"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return os.ExpandEnv("$HOME/.config/promptrec.yaml")
}

// Load reads configuration from configFile, applying defaults for every
// unset key. A missing file is not an error when no explicit path was
// given: the tool is usable from flags alone.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	explicit := configFile != ""
	if !explicit {
		configFile = DefaultPath()
	}
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if explicit || fileExists(configFile) {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		// Default path absent: run on defaults and flags alone.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", configFile, err)
	}

	cfg.Output.Directory = expandPath(cfg.Output.Directory)
	cfg.Prompts.File = expandPath(cfg.Prompts.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges. The prompts file itself is validated by
// the commands that need one.
func (c *Config) Validate() error {
	if c.Prompts.Count < 0 {
		return fmt.Errorf("prompts.count must not be negative, got %d", c.Prompts.Count)
	}
	if c.Prompts.LenSoftMax < 0 {
		return fmt.Errorf("prompts.len_soft_max must not be negative, got %d", c.Prompts.LenSoftMax)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Channels <= 0 {
		return fmt.Errorf("audio.channels must be positive, got %d", c.Audio.Channels)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("prompts.count", 100)
	v.SetDefault("prompts.len_soft_max", 0)
	v.SetDefault("prompts.ordered", false)
	v.SetDefault("prompts.seed", 0)
	v.SetDefault("output.directory", filepath.Join("~", "Audio", "promptrec"))
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.capture_command", "ffmpeg")
	v.SetDefault("audio.input_format", "pulse")
	v.SetDefault("audio.input_device", "default")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandPath expands a leading tilde to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
