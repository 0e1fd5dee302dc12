package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. ANIMTIMELINE_FPS.
const EnvPrefix = "ANIMTIMELINE"

type Config struct {
	InputPath     string  `mapstructure:"input"`
	InputDir      string  `mapstructure:"inputDir"`
	OutputDir     string  `mapstructure:"outputDir"`
	OutputPath    string  `mapstructure:"output"`
	FPS           int     `mapstructure:"fps"`
	Workers       int     `mapstructure:"workers"`
	Speed         float64 `mapstructure:"speed"`
	Loop          string  `mapstructure:"loop"`
	Mode          string  `mapstructure:"mode"`
	Ticks         int     `mapstructure:"ticks"`
	PreviewDir    string  `mapstructure:"previewDir"`
	PreviewWidth  int     `mapstructure:"previewWidth"`
	PreviewHeight int     `mapstructure:"previewHeight"`
	Watch         bool    `mapstructure:"watch"`
	LogLevel      string  `mapstructure:"logLevel"`
	ShowStats     bool    `mapstructure:"stats"`
	BuildVersion  string  `mapstructure:"-"`
}

// Режимы работы
const (
	ModeExport = "export"
	ModePlay   = "play"
)

// Load reads configuration from path (YAML) on top of defaults and
// ANIMTIMELINE_* environment variables. An empty path looks for
// animtimeline.yaml in the working directory and tolerates its absence.
// defaultWorkers is used when neither the file nor the environment set one.
func Load(path string, defaultWorkers int) (*Config, error) {
	v := viper.New()

	// Значения по умолчанию
	v.SetDefault("input", "")
	v.SetDefault("inputDir", "input")
	v.SetDefault("outputDir", "output")
	v.SetDefault("output", "")
	v.SetDefault("fps", 30)
	v.SetDefault("workers", defaultWorkers)
	v.SetDefault("speed", 1.0)
	v.SetDefault("loop", "once")
	v.SetDefault("mode", ModeExport)
	v.SetDefault("ticks", 0)
	v.SetDefault("previewDir", "")
	v.SetDefault("previewWidth", 640)
	v.SetDefault("previewHeight", 360)
	v.SetDefault("watch", false)
	v.SetDefault("logLevel", "info")
	v.SetDefault("stats", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("animtimeline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Speed <= 0 {
		return fmt.Errorf("config: speed must be positive, got %v", c.Speed)
	}
	switch c.Mode {
	case ModeExport, ModePlay:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.PreviewWidth <= 0 || c.PreviewHeight <= 0 {
		return fmt.Errorf("config: preview size must be positive, got %dx%d", c.PreviewWidth, c.PreviewHeight)
	}
	return nil
}
