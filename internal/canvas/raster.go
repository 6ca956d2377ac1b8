package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// DrawSegment rasterises a straight line from one point to another.
// Anything outside the canvas is clipped.
func (c *Canvas) DrawSegment(from, to image.Point, pen Pen) {
	switch {
	case pen.Width <= 1:
		c.hairline(from, to, pen.Color)
	case pen.Shape == PenShapeSquare:
		c.squareLine(from, to, pen.Width, pen.Color)
	default:
		c.roundLine(from, to, pen.Width, pen.Color)
	}
}

// bresenham calls plot for every grid point on the line from a to b.
func bresenham(a, b image.Point, plot func(x, y int)) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		plot(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (c *Canvas) hairline(from, to image.Point, col color.RGBA) {
	bresenham(from, to, func(x, y int) {
		c.img.SetRGBA(x, y, col)
	})
}

// Square pen: stamp a size x size square at every step.
func (c *Canvas) squareLine(from, to image.Point, size int, col color.RGBA) {
	src := image.NewUniform(col)
	half := size / 2
	bresenham(from, to, func(x, y int) {
		r := image.Rect(x-half, y-half, x-half+size, y-half+size)
		draw.Draw(c.img, r, src, image.Point{}, draw.Src)
	})
}

// Round pen: fill the capsule swept by a disc of the pen width.
func (c *Canvas) roundLine(from, to image.Point, width int, col color.RGBA) {
	r := float64(width) / 2
	pad := int(math.Ceil(r)) + 1

	// Only the part of the segment within pad of the canvas can touch it,
	// so the mask never grows past the canvas plus a border.
	ax, ay, bx, by, ok := clipSegment(
		float64(from.X), float64(from.Y), float64(to.X), float64(to.Y),
		c.img.Rect.Inset(-pad))
	if !ok {
		return
	}
	box := image.Rect(
		int(math.Floor(min(ax, bx))), int(math.Floor(min(ay, by))),
		int(math.Ceil(max(ax, bx))), int(math.Ceil(max(ay, by))),
	).Inset(-pad)
	if !box.Overlaps(c.img.Rect) {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	ox := float64(box.Min.X) - 0.5
	oy := float64(box.Min.Y) - 0.5
	ax, ay = ax-ox, ay-oy
	bx, by = bx-ox, by-oy

	angle := math.Atan2(float64(to.Y-from.Y), float64(to.X-from.X))
	steps := max(8, int(r))
	// The outline runs around the end cap at b, then around the cap at a.
	// For a zero-length segment the two caps make a full circle.
	first := true
	arc := func(cx, cy, start float64) {
		for k := 0; k <= steps; k++ {
			t := start - math.Pi*float64(k)/float64(steps)
			px := float32(cx + r*math.Cos(t))
			py := float32(cy + r*math.Sin(t))
			if first {
				z.MoveTo(px, py)
				first = false
				continue
			}
			z.LineTo(px, py)
		}
	}
	arc(bx, by, angle+math.Pi/2)
	arc(ax, ay, angle-math.Pi/2)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(c.img, box, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

// clipSegment clips the segment a-b to r (Liang-Barsky). ok is false when
// the segment misses r entirely.
func clipSegment(ax, ay, bx, by float64, r image.Rectangle) (x0, y0, x1, y1 float64, ok bool) {
	dx, dy := bx-ax, by-ay
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, ax - float64(r.Min.X)},
		{dx, float64(r.Max.X) - ax},
		{-dy, ay - float64(r.Min.Y)},
		{dy, float64(r.Max.Y) - ay},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	return ax + t0*dx, ay + t0*dy, ax + t1*dx, ay + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
