// Package config loads sketchpad settings.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// a .env file, then SKETCHPAD_* environment variables. Variables already
// present in the environment win over the .env file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/ha1tch/sketchpad/internal/canvas"
	"github.com/ha1tch/sketchpad/internal/export"
	"github.com/ha1tch/sketchpad/internal/history"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid config")

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SKETCHPAD_"

// Config holds every setting.
type Config struct {
	CanvasWidth     int    `toml:"canvas_width"`
	CanvasHeight    int    `toml:"canvas_height"`
	HistoryCapacity int    `toml:"history_capacity"`
	PenWidth        int    `toml:"pen_width"`
	PenColor        string `toml:"pen_color"`
	EraserColor     string `toml:"eraser_color"`
	Background      string `toml:"background"`
	ExportDir       string `toml:"export_dir"`
	PNGCompression  string `toml:"png_compression"`
	LogLevel        string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CanvasWidth:     canvas.DefaultWidth,
		CanvasHeight:    canvas.DefaultHeight,
		HistoryCapacity: history.DefaultCapacity,
		PenWidth:        1,
		PenColor:        "#000000",
		EraserColor:     "#ffffff",
		Background:      "#ffffff",
		ExportDir:       ".",
		PNGCompression:  "default",
		LogLevel:        "info",
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty or the file does not exist), the .env file at envFile
// (same rule) and the process environment.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"CANVAS_WIDTH":     &c.CanvasWidth,
		"CANVAS_HEIGHT":    &c.CanvasHeight,
		"HISTORY_CAPACITY": &c.HistoryCapacity,
		"PEN_WIDTH":        &c.PenWidth,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalid, EnvPrefix, key, v)
		}
		*dst = n
	}

	strs := map[string]*string{
		"PEN_COLOR":       &c.PenColor,
		"ERASER_COLOR":    &c.EraserColor,
		"BACKGROUND":      &c.Background,
		"EXPORT_DIR":      &c.ExportDir,
		"PNG_COMPRESSION": &c.PNGCompression,
		"LOG_LEVEL":       &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	return nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.CanvasWidth, c.CanvasHeight)
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("%w: history_capacity %d", ErrInvalid, c.HistoryCapacity)
	}
	if c.PenWidth < 0 || c.PenWidth >= canvas.MaxWidth {
		return fmt.Errorf("%w: pen_width %d outside [0,%d)", ErrInvalid, c.PenWidth, canvas.MaxWidth)
	}
	for name, v := range map[string]string{
		"pen_color":    c.PenColor,
		"eraser_color": c.EraserColor,
		"background":   c.Background,
	} {
		if _, err := canvas.ParseColor(v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
	}
	if _, err := export.ParseCompression(c.PNGCompression); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Colors returns the parsed pen, eraser and background colours.
// Call Validate first.
func (c Config) Colors() (pen, eraser, background color.RGBA) {
	pen, _ = canvas.ParseColor(c.PenColor)
	eraser, _ = canvas.ParseColor(c.EraserColor)
	background, _ = canvas.ParseColor(c.Background)
	return pen, eraser, background
}
