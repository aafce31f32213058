// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/user/framegrab/pkg/adapters/smartsource"
	"github.com/user/framegrab/pkg/export"
	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/session"
	"github.com/user/framegrab/pkg/timecode"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "FRAMEGRAB_"

// Config represents the full configuration for framegrab.
type Config struct {
	Preview PreviewConfig `yaml:"preview" envPrefix:"PREVIEW_"`

	// Time field
	TimeUnit string `yaml:"time_unit" env:"TIME_UNIT"`

	// Export
	JPEGQuality int `yaml:"jpeg_quality" env:"JPEG_QUALITY"`

	// Video backends
	Backend     string `yaml:"backend" env:"BACKEND"`
	FFmpegPath  string `yaml:"ffmpeg_path" env:"FFMPEG_PATH"`
	FFprobePath string `yaml:"ffprobe_path" env:"FFPROBE_PATH"`

	// Logging
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Shell
	HistoryFile string `yaml:"history_file" env:"HISTORY_FILE"`
}

// PreviewConfig represents the preview surface.
type PreviewConfig struct {
	Width      int    `yaml:"width" env:"WIDTH"`
	Height     int    `yaml:"height" env:"HEIGHT"`
	Fit        string `yaml:"fit" env:"FIT"`
	Background string `yaml:"background" env:"BACKGROUND"`
	Overlay    bool   `yaml:"overlay" env:"OVERLAY"`
	FontPath   string `yaml:"font_path" env:"FONT_PATH"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Preview: PreviewConfig{
			Width:      640,
			Height:     360,
			Fit:        string(session.FitStretch),
			Background: "#000000",
		},
		TimeUnit:    timecode.DefaultUnit,
		JPEGQuality: export.DefaultJPEGQuality,
		Backend:     string(smartsource.BackendAuto),
		LogLevel:    ports.LevelInfo.String(),
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from FRAMEGRAB_* environment variables.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		errs = append(errs, fmt.Errorf("preview size %dx%d must be positive", c.Preview.Width, c.Preview.Height))
	}
	switch session.Fit(c.Preview.Fit) {
	case session.FitStretch, session.FitLetterbox:
	default:
		errs = append(errs, fmt.Errorf("preview fit %q must be stretch or letterbox", c.Preview.Fit))
	}
	if _, err := ParseColor(c.Preview.Background); err != nil {
		errs = append(errs, fmt.Errorf("preview background: %w", err))
	}
	if strings.TrimSpace(c.TimeUnit) == "" {
		errs = append(errs, errors.New("time unit must not be empty"))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg quality %d must be between 1 and 100", c.JPEGQuality))
	}
	if _, err := smartsource.ParseBackend(c.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SessionOptions converts the preview settings. Call Validate first.
func (c Config) SessionOptions() session.Options {
	bg, err := ParseColor(c.Preview.Background)
	if err != nil {
		bg = color.Black
	}
	return session.Options{
		PreviewWidth:  c.Preview.Width,
		PreviewHeight: c.Preview.Height,
		Fit:           session.Fit(c.Preview.Fit),
		Background:    bg,
		Unit:          c.TimeUnit,
		Overlay:       c.Preview.Overlay,
		FontPath:      c.Preview.FontPath,
	}
}

// ExportOptions converts the export settings.
func (c Config) ExportOptions() export.Options {
	return export.Options{JPEGQuality: c.JPEGQuality}
}

// SourceOptions converts the backend settings. Call Validate first.
func (c Config) SourceOptions(log ports.Logger) smartsource.Options {
	backend, err := smartsource.ParseBackend(c.Backend)
	if err != nil {
		backend = smartsource.BackendAuto
	}
	return smartsource.Options{
		Backend:     backend,
		FFmpegPath:  c.FFmpegPath,
		FFprobePath: c.FFprobePath,
		Logger:      log,
	}
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() ports.LogLevel {
	level, err := ports.ParseLogLevel(c.LogLevel)
	if err != nil {
		return ports.LevelInfo
	}
	return level
}

// ParseColor parses "#rgb" or "#rrggbb" into an opaque colour.
func ParseColor(hex string) (color.Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
