package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ha1tch/sketchpad/internal/history"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.CanvasWidth != 500 || cfg.CanvasHeight != 500 || cfg.HistoryCapacity != 20 || cfg.PenWidth != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.HistoryCapacity != history.DefaultCapacity {
		t.Errorf("HistoryCapacity = %d, want history.DefaultCapacity (%d)", cfg.HistoryCapacity, history.DefaultCapacity)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "none.toml"), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sketchpad.toml", `
canvas_width = 320
canvas_height = 240
history_capacity = 5
pen_color = "#ff0000"
log_level = "debug"
`)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CanvasWidth != 320 || cfg.CanvasHeight != 240 || cfg.HistoryCapacity != 5 {
		t.Errorf("sizes not loaded: %+v", cfg)
	}
	if cfg.PenColor != "#ff0000" || cfg.LogLevel != "debug" {
		t.Errorf("strings not loaded: %+v", cfg)
	}
	if cfg.EraserColor != "#ffffff" {
		t.Errorf("unset key lost its default: %q", cfg.EraserColor)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", "canvas_width = [")
	if _, err := Load(path, ""); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}

func TestLayering(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sketchpad.toml", "history_capacity = 5\npen_width = 3\nexport_dir = \"from-file\"\n")
	env := writeFile(t, dir, ".env", "SKETCHPAD_PEN_WIDTH=7\nSKETCHPAD_EXPORT_DIR=from-dotenv\n")

	t.Setenv("SKETCHPAD_EXPORT_DIR", "from-env")
	// godotenv sets variables for the rest of the process; clear them after.
	t.Setenv("SKETCHPAD_PEN_WIDTH", "")
	os.Unsetenv("SKETCHPAD_PEN_WIDTH")

	cfg, err := Load(path, env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HistoryCapacity != 5 {
		t.Errorf("file value lost: %d", cfg.HistoryCapacity)
	}
	if cfg.PenWidth != 7 {
		t.Errorf(".env did not override file: %d", cfg.PenWidth)
	}
	if cfg.ExportDir != "from-env" {
		t.Errorf("environment did not win over .env: %q", cfg.ExportDir)
	}
}

func TestEnvNotInteger(t *testing.T) {
	t.Setenv("SKETCHPAD_CANVAS_WIDTH", "wide")
	if _, err := Load("", ""); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.CanvasWidth = 0 }},
		{"negative height", func(c *Config) { c.CanvasHeight = -1 }},
		{"no history", func(c *Config) { c.HistoryCapacity = 0 }},
		{"pen too wide", func(c *Config) { c.PenWidth = 100 }},
		{"negative pen", func(c *Config) { c.PenWidth = -1 }},
		{"bad pen color", func(c *Config) { c.PenColor = "red" }},
		{"bad background", func(c *Config) { c.Background = "#12" }},
		{"bad compression", func(c *Config) { c.PNGCompression = "ultra" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestColors(t *testing.T) {
	cfg := Default()
	cfg.PenColor = "#102030"
	pen, eraser, bg := cfg.Colors()
	if pen != (color.RGBA{16, 32, 48, 255}) {
		t.Errorf("pen = %v", pen)
	}
	white := color.RGBA{255, 255, 255, 255}
	if eraser != white || bg != white {
		t.Errorf("eraser %v background %v", eraser, bg)
	}
}
