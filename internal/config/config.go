// Package config provides configuration loading and validation for brushcolor.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"brushcolor/internal/palette"
)

// Config represents the application configuration.
type Config struct {
	Fill    FillConfig    `yaml:"fill"`
	History HistoryConfig `yaml:"history"`
	Image   ImageConfig   `yaml:"image"`
	Export  ExportConfig  `yaml:"export"`
	Palette []string      `yaml:"palette"`
	Log     LogConfig     `yaml:"log"`
}

// FillConfig contains the region matching parameters.
// Absent keys keep their defaults; an explicit 0 is honored.
type FillConfig struct {
	FloodTolerance   int `yaml:"flood_tolerance"`
	MatchTolerance   int `yaml:"match_tolerance"`
	OutlineThreshold int `yaml:"outline_threshold"`
}

// HistoryConfig contains undo settings.
type HistoryConfig struct {
	Depth int `yaml:"depth"`
}

// ImageConfig controls how loaded pictures are sized.
type ImageConfig struct {
	MaxSize    int     `yaml:"max_size"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

// ExportConfig contains export settings.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfigPath is the default path to look for the configuration file.
const DefaultConfigPath = "config.yaml"

// Default values for optional configuration fields.
const (
	DefaultFloodTolerance   = 60
	DefaultMatchTolerance   = 5
	DefaultOutlineThreshold = 80
	DefaultHistoryDepth     = 15
	DefaultMaxSize          = 1024
	DefaultPixelRatio       = 1.0
	DefaultExportDir        = "."
	DefaultLogLevel         = "warn"
)

// Load reads and parses the configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys missing from the file leave these values untouched.
	cfg := newFillDefaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads configuration from the default path (config.yaml).
// A missing file is not an error; the built-in defaults are used instead.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := newFillDefaults()
	cfg.applyDefaults()
	return cfg
}

// newFillDefaults returns a Config whose fill section holds the defaults.
// Zero is a valid tolerance and threshold, so these are seeded before
// decoding instead of being filled in afterwards.
func newFillDefaults() *Config {
	return &Config{
		Fill: FillConfig{
			FloodTolerance:   DefaultFloodTolerance,
			MatchTolerance:   DefaultMatchTolerance,
			OutlineThreshold: DefaultOutlineThreshold,
		},
	}
}

// applyDefaults sets default values for optional configuration fields
// other than the fill section, where zero means "use the default".
func (c *Config) applyDefaults() {
	if c.History.Depth == 0 {
		c.History.Depth = DefaultHistoryDepth
	}
	if c.Image.MaxSize == 0 {
		c.Image.MaxSize = DefaultMaxSize
	}
	if c.Image.PixelRatio == 0 {
		c.Image.PixelRatio = DefaultPixelRatio
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
	if len(c.Palette) == 0 {
		c.Palette = palette.DefaultHex()
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// validate checks that all configuration fields are in range.
func (c *Config) validate() error {
	if c.Fill.FloodTolerance < 0 || c.Fill.FloodTolerance > 255 {
		return fmt.Errorf("fill.flood_tolerance must be between 0 and 255, got %d", c.Fill.FloodTolerance)
	}
	if c.Fill.MatchTolerance < 0 || c.Fill.MatchTolerance > 255 {
		return fmt.Errorf("fill.match_tolerance must be between 0 and 255, got %d", c.Fill.MatchTolerance)
	}
	if c.Fill.OutlineThreshold < 0 || c.Fill.OutlineThreshold > 256 {
		return fmt.Errorf("fill.outline_threshold must be between 0 and 256, got %d", c.Fill.OutlineThreshold)
	}
	if c.History.Depth < 1 {
		return fmt.Errorf("history.depth must be positive, got %d", c.History.Depth)
	}
	if c.Image.MaxSize < 1 {
		return fmt.Errorf("image.max_size must be positive, got %d", c.Image.MaxSize)
	}
	if c.Image.PixelRatio <= 0 {
		return fmt.Errorf("image.pixel_ratio must be positive, got %g", c.Image.PixelRatio)
	}
	for _, hex := range c.Palette {
		if _, err := palette.ParseHex(hex); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name from the log section into a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level %q is not one of debug, info, warn, error", name)
	}
}
