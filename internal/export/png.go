// Package export writes canvases to PNG files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Filename returns the file name used for canvas id.
func Filename(id int) string {
	return fmt.Sprintf("canvas%d.png", id)
}

// ParseCompression maps a config value to a PNG compression level.
func ParseCompression(s string) (png.CompressionLevel, error) {
	switch s {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return 0, fmt.Errorf("unknown png compression %q", s)
	}
}

// Encode writes img to w as PNG.
func Encode(w io.Writer, img image.Image, level png.CompressionLevel) error {
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// FileMode is the permission set on exported images.
const FileMode os.FileMode = 0o644

// Exporter saves canvases into a directory.
type Exporter struct {
	Dir   string
	Level png.CompressionLevel
	Log   logrus.FieldLogger
}

// Save writes img to Dir/canvas<id>.png and returns the path. The file is
// written under a temporary name first, so a failed save never leaves a
// truncated image behind.
func (e *Exporter) Save(id int, img image.Image) (string, error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, Filename(id))

	f, err := os.CreateTemp(dir, ".canvas-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = Encode(f, img, e.Level); err != nil {
		_ = f.Close()
		return "", err
	}
	// CreateTemp opens the file 0600.
	if err = f.Chmod(FileMode); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to rename %s: %w", tmp, err)
	}

	if e.Log != nil {
		e.Log.WithFields(logrus.Fields{
			"canvas_id": id,
			"path":      path,
		}).Info("Canvas exported")
	}
	return path, nil
}
