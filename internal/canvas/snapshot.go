package canvas

import (
	"image"
	"image/color"
)

// Snapshot is an immutable copy of a canvas pixel buffer.
// It implements image.Image.
type Snapshot struct {
	pix    []uint8
	stride int
	rect   image.Rectangle
}

func newSnapshot(img *image.RGBA) *Snapshot {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Snapshot{pix: pix, stride: img.Stride, rect: img.Rect}
}

// Size returns the snapshot dimensions.
func (s *Snapshot) Size() image.Point { return s.rect.Size() }

func (s *Snapshot) Bounds() image.Rectangle { return s.rect }

func (s *Snapshot) ColorModel() color.Model { return color.RGBAModel }

func (s *Snapshot) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(s.rect)) {
		return color.RGBA{}
	}
	i := (y-s.rect.Min.Y)*s.stride + (x-s.rect.Min.X)*4
	p := s.pix[i : i+4 : i+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}
}
