package stroke

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ha1tch/sketchpad/internal/canvas"
)

type segment struct {
	from, to image.Point
	pen      canvas.Pen
}

type recorder struct {
	checkpoints int
	segments    []segment
	pen, eraser canvas.Pen
}

func (r *recorder) DrawSegment(from, to image.Point, pen canvas.Pen) {
	r.segments = append(r.segments, segment{from, to, pen})
}
func (r *recorder) Checkpoint()                      { r.checkpoints++ }
func (r *recorder) Pen() canvas.Pen                  { return r.pen }
func (r *recorder) Eraser() canvas.Pen               { return r.eraser }
func (r *recorder) Capture() *canvas.Snapshot        { return nil }
func (r *recorder) Restore(s *canvas.Snapshot) error { return nil }

// Any stroke target is usable wherever a canvas.Drawable is expected.
var _ canvas.Drawable = Target(nil)

func newRecorder() *recorder {
	return &recorder{pen: canvas.DefaultPen, eraser: canvas.DefaultEraser}
}

func TestGesture(t *testing.T) {
	rec := newRecorder()
	redraws := 0
	tr := New(func() Target { return rec }, WithRedraw(func() { redraws++ }))

	tr.Press(image.Pt(1, 1))
	if tr.State() != Dragging || rec.checkpoints != 1 {
		t.Fatalf("after press: state %v, checkpoints %d", tr.State(), rec.checkpoints)
	}
	tr.Move(image.Pt(5, 1), ButtonPrimary)
	tr.Move(image.Pt(5, 9), ButtonPrimary)
	tr.Release()

	if tr.State() != Idle {
		t.Errorf("state after release = %v", tr.State())
	}
	if rec.checkpoints != 1 {
		t.Errorf("checkpoints = %d, want 1 per stroke", rec.checkpoints)
	}
	want := []segment{
		{image.Pt(1, 1), image.Pt(5, 1), canvas.DefaultPen},
		{image.Pt(5, 1), image.Pt(5, 9), canvas.DefaultPen},
	}
	if len(rec.segments) != len(want) {
		t.Fatalf("segments = %v", rec.segments)
	}
	for i := range want {
		if rec.segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, rec.segments[i], want[i])
		}
	}
	if redraws != 2 {
		t.Errorf("redraws = %d, want 2", redraws)
	}
}

func TestPenSelection(t *testing.T) {
	tests := []struct {
		name string
		held Buttons
		want canvas.Pen
	}{
		{"primary", ButtonPrimary, canvas.DefaultPen},
		{"secondary", ButtonSecondary, canvas.DefaultEraser},
		{"middle", ButtonMiddle, canvas.DefaultPen},
		{"primary and secondary", ButtonPrimary | ButtonSecondary, canvas.DefaultPen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			tr := New(func() Target { return rec })
			tr.Press(image.Pt(0, 0))
			tr.Move(image.Pt(3, 3), tt.held)
			if len(rec.segments) != 1 || rec.segments[0].pen != tt.want {
				t.Errorf("segments = %+v, want pen %+v", rec.segments, tt.want)
			}
		})
	}
}

func TestIgnoredMoves(t *testing.T) {
	rec := newRecorder()
	tr := New(func() Target { return rec })

	tr.Move(image.Pt(4, 4), ButtonPrimary) // before any press
	tr.Press(image.Pt(0, 0))
	tr.Move(image.Pt(4, 4), NoButtons) // hover
	tr.Release()
	tr.Move(image.Pt(8, 8), ButtonPrimary) // after release

	if len(rec.segments) != 0 {
		t.Errorf("unexpected segments %+v", rec.segments)
	}
	tr.Release()
	if tr.State() != Idle {
		t.Error("double release left translator dragging")
	}
}

func TestNilTarget(t *testing.T) {
	tr := New(func() Target { return nil })
	tr.Press(image.Pt(1, 1))
	tr.Move(image.Pt(2, 2), ButtonPrimary)
	if tr.State() != Idle {
		t.Errorf("state = %v with no target", tr.State())
	}
}

func TestSecondPressWhileDragging(t *testing.T) {
	rec := newRecorder()
	tr := New(func() Target { return rec })
	tr.Press(image.Pt(0, 0))
	tr.Press(image.Pt(7, 7))
	tr.Move(image.Pt(8, 8), ButtonPrimary)

	if rec.checkpoints != 1 {
		t.Errorf("checkpoints = %d, want 1", rec.checkpoints)
	}
	if rec.segments[0].from != image.Pt(7, 7) {
		t.Errorf("segment starts at %v", rec.segments[0].from)
	}
}

func TestTargetFixedForStroke(t *testing.T) {
	a, b := newRecorder(), newRecorder()
	current := Target(a)
	tr := New(func() Target { return current })

	tr.Press(image.Pt(0, 0))
	current = b
	tr.Move(image.Pt(1, 1), ButtonPrimary)
	tr.Release()

	if len(a.segments) != 1 || len(b.segments) != 0 {
		t.Errorf("segments a=%d b=%d", len(a.segments), len(b.segments))
	}
}

func encode(t *testing.T, c *canvas.Canvas) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Capture()); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestStrokeUndoesAsOneStep(t *testing.T) {
	c := canvas.New(64, 64)
	c.SetWidth(5)
	tr := New(func() Target { return c })

	before := encode(t, c)
	tr.Press(image.Pt(5, 5))
	for i := 1; i <= 20; i++ {
		tr.Move(image.Pt(5+2*i, 5+i), ButtonPrimary)
	}
	tr.Release()

	if bytes.Equal(before, encode(t, c)) {
		t.Fatal("stroke did not change the canvas")
	}
	if c.HistoryLen() != 1 {
		t.Fatalf("HistoryLen() = %d, want 1", c.HistoryLen())
	}
	if ok, err := c.Undo(); !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if !bytes.Equal(before, encode(t, c)) {
		t.Error("undo did not restore the pre-stroke canvas")
	}
}

func TestEraserStroke(t *testing.T) {
	c := canvas.New(20, 20)
	tr := New(func() Target { return c })

	tr.Press(image.Pt(2, 10))
	tr.Move(image.Pt(17, 10), ButtonPrimary)
	tr.Release()
	if c.RGBAAt(10, 10) != (color.RGBA{0, 0, 0, 255}) {
		t.Fatal("pen stroke missing")
	}

	tr.Press(image.Pt(2, 10))
	tr.Move(image.Pt(17, 10), ButtonSecondary)
	tr.Release()
	if c.RGBAAt(10, 10) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("eraser stroke did not restore white")
	}
}
