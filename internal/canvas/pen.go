package canvas

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxWidth is the exclusive upper bound of a pen width.
const MaxWidth = 100

// PenShape selects the brush tip used to rasterise a segment.
type PenShape int

const (
	PenShapeRound PenShape = iota
	PenShapeSquare
)

func (s PenShape) String() string {
	switch s {
	case PenShapeRound:
		return "ROUND"
	case PenShapeSquare:
		return "SQUARE"
	default:
		return "UNKNOWN"
	}
}

// Pen is a stroke colour, width and tip shape.
// A width of 0 or 1 draws a one pixel hairline.
type Pen struct {
	Color color.RGBA
	Width int
	Shape PenShape
}

// Default pens
var (
	DefaultPen    = Pen{Color: color.RGBA{0, 0, 0, 255}, Width: 1}
	DefaultEraser = Pen{Color: color.RGBA{255, 255, 255, 255}, Width: 1}
)

// WrapWidth folds w into [0, MaxWidth), wrapping at both ends.
func WrapWidth(w int) int {
	return ((w % MaxWidth) + MaxWidth) % MaxWidth
}

// ParseColor parses a "#rrggbb" or "#rgb" string into an opaque colour.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// HexColor formats c as "#rrggbb", ignoring alpha.
func HexColor(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
