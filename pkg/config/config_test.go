package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/session"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Preview.Width != 640 || cfg.Preview.Height != 360 {
		t.Errorf("preview = %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	if cfg.TimeUnit != "秒" || cfg.JPEGQuality != 95 {
		t.Errorf("unit %q quality %d", cfg.TimeUnit, cfg.JPEGQuality)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framegrab.yaml")
	data := `
preview:
  width: 320
  fit: letterbox
  background: "#336699"
jpeg_quality: 80
backend: mpeg
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Preview.Width != 320 || cfg.Preview.Height != 360 {
		t.Errorf("preview = %dx%d, height should keep its default", cfg.Preview.Width, cfg.Preview.Height)
	}
	if cfg.JPEGQuality != 80 || cfg.Backend != "mpeg" {
		t.Errorf("cfg = %+v", cfg)
	}

	opts := cfg.SessionOptions()
	if opts.Fit != session.FitLetterbox {
		t.Errorf("Fit = %s", opts.Fit)
	}
	if opts.Background != (color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 255}) {
		t.Errorf("Background = %v", opts.Background)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("preview: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FRAMEGRAB_PREVIEW_WIDTH", "1280")
	t.Setenv("FRAMEGRAB_PREVIEW_OVERLAY", "true")
	t.Setenv("FRAMEGRAB_TIME_UNIT", "s")
	t.Setenv("FRAMEGRAB_FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")

	cfg := Defaults()
	cfg.JPEGQuality = 70
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Preview.Width != 1280 || !cfg.Preview.Overlay {
		t.Errorf("preview = %+v", cfg.Preview)
	}
	if cfg.Preview.Height != 360 {
		t.Errorf("unset variables must keep values, height = %d", cfg.Preview.Height)
	}
	if cfg.TimeUnit != "s" || cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.JPEGQuality != 70 {
		t.Errorf("JPEGQuality = %d, want 70", cfg.JPEGQuality)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("FRAMEGRAB_JPEG_QUALITY", "high")

	cfg := Defaults()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric quality")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"size", func(c *Config) { c.Preview.Width = 0 }, "preview size"},
		{"fit", func(c *Config) { c.Preview.Fit = "zoom" }, "preview fit"},
		{"background", func(c *Config) { c.Preview.Background = "blue" }, "preview background"},
		{"unit", func(c *Config) { c.TimeUnit = " " }, "time unit"},
		{"quality", func(c *Config) { c.JPEGQuality = 101 }, "jpeg quality"},
		{"backend", func(c *Config) { c.Backend = "vlc" }, "unknown backend"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Defaults()
	cfg.JPEGQuality = 0
	cfg.Backend = "vlc"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "jpeg quality") || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{"#000000", color.RGBA{A: 255}, false},
		{"#ffffff", color.RGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"1a1a2e", color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}, false},
		{"#f00", color.RGBA{R: 255, A: 255}, false},
		{"", nil, true},
		{"#12345", nil, true},
		{"#gggggg", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "debug"
	if cfg.Level() != ports.LevelDebug {
		t.Errorf("Level = %s", cfg.Level())
	}
	cfg.LogLevel = "nonsense"
	if cfg.Level() != ports.LevelInfo {
		t.Errorf("Level = %s", cfg.Level())
	}
}
