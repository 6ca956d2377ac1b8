// Package canvas implements a fixed-size RGBA drawing surface with its own
// undo history and pen state.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ha1tch/sketchpad/internal/history"
)

// Standard canvas size
const (
	DefaultWidth  = 500
	DefaultHeight = 500
)

// ErrDimensionMismatch is returned when restoring a snapshot taken from a
// canvas of a different size.
var ErrDimensionMismatch = errors.New("snapshot dimensions do not match canvas")

// Drawable is the surface the stroke translator paints on.
type Drawable interface {
	DrawSegment(from, to image.Point, pen Pen)
	Capture() *Snapshot
	Restore(s *Snapshot) error
}

var _ Drawable = (*Canvas)(nil)

// Canvas is a pixel buffer plus its undo history and pens.
type Canvas struct {
	img        *image.RGBA
	background color.RGBA
	history    *history.History[*Snapshot]
	pen        Pen
	eraser     Pen
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithHistoryCapacity sets how many undo steps are kept.
func WithHistoryCapacity(n int) Option {
	return func(c *Canvas) { c.history = history.New[*Snapshot](n) }
}

// WithBackground sets the fill colour of a fresh or cleared canvas.
func WithBackground(bg color.RGBA) Option {
	return func(c *Canvas) { c.background = bg }
}

// WithPen sets the primary pen.
func WithPen(p Pen) Option {
	return func(c *Canvas) { c.pen = p }
}

// WithEraser sets the eraser pen.
func WithEraser(p Pen) Option {
	return func(c *Canvas) { c.eraser = p }
}

// New creates a width x height canvas filled with the background colour.
func New(width, height int, opts ...Option) *Canvas {
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		background: color.RGBA{255, 255, 255, 255},
		pen:        DefaultPen,
		eraser:     DefaultEraser,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history == nil {
		c.history = history.New[*Snapshot](history.DefaultCapacity)
	}
	c.fill()
	return c
}

func (c *Canvas) fill() {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(c.background), image.Point{}, draw.Src)
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point { return c.img.Rect.Size() }

// Capture returns a copy of the current pixels.
func (c *Canvas) Capture() *Snapshot { return newSnapshot(c.img) }

// Restore replaces the pixels with a copy of s.
func (c *Canvas) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("restore: nil snapshot")
	}
	if s.rect != c.img.Rect || len(s.pix) != len(c.img.Pix) {
		return fmt.Errorf("restore %v onto %v: %w", s.rect.Size(), c.img.Rect.Size(), ErrDimensionMismatch)
	}
	copy(c.img.Pix, s.pix)
	return nil
}

// Checkpoint records the current pixels as one undo step.
func (c *Canvas) Checkpoint() {
	c.history.Push(c.Capture())
}

// Undo reverts to the most recent checkpoint.
// It reports false and leaves the pixels alone when there is nothing to undo.
func (c *Canvas) Undo() (bool, error) {
	s, ok := c.history.Pop()
	if !ok {
		return false, nil
	}
	if err := c.Restore(s); err != nil {
		return false, err
	}
	return true, nil
}

// HistoryLen returns the number of undo steps available.
func (c *Canvas) HistoryLen() int { return c.history.Len() }

// HistoryCap returns the maximum number of undo steps.
func (c *Canvas) HistoryCap() int { return c.history.Cap() }

// Clear fills the canvas with its background. The previous content is
// checkpointed first.
func (c *Canvas) Clear() {
	c.Checkpoint()
	c.fill()
}

// Pen returns the primary pen.
func (c *Canvas) Pen() Pen { return c.pen }

// Eraser returns the eraser pen.
func (c *Canvas) Eraser() Pen { return c.eraser }

// SetPenColor changes the primary pen colour.
func (c *Canvas) SetPenColor(col color.RGBA) { c.pen.Color = col }

// SetEraserColor changes the eraser colour.
func (c *Canvas) SetEraserColor(col color.RGBA) { c.eraser.Color = col }

// SetPenShape changes the tip of both pens.
func (c *Canvas) SetPenShape(s PenShape) {
	c.pen.Shape = s
	c.eraser.Shape = s
}

// SetWidth sets the width of both pens, wrapped into [0, MaxWidth).
func (c *Canvas) SetWidth(w int) int {
	w = WrapWidth(w)
	c.pen.Width = w
	c.eraser.Width = w
	return w
}

// AdjustWidth moves both pen widths by delta and returns the new width.
func (c *Canvas) AdjustWidth(delta int) int {
	return c.SetWidth(c.pen.Width + delta)
}

// Image returns the live pixel buffer. Callers must not modify it.
func (c *Canvas) Image() image.Image { return c.img }

// Pixels returns a copy of the buffer as one colour per pixel, row major.
func (c *Canvas) Pixels() []color.RGBA {
	size := c.img.Rect.Size()
	out := make([]color.RGBA, 0, size.X*size.Y)
	for i := 0; i+3 < len(c.img.Pix); i += 4 {
		out = append(out, color.RGBA{c.img.Pix[i], c.img.Pix[i+1], c.img.Pix[i+2], c.img.Pix[i+3]})
	}
	return out
}

// RGBAAt returns the colour of one pixel.
func (c *Canvas) RGBAAt(x, y int) color.RGBA { return c.img.RGBAAt(x, y) }
