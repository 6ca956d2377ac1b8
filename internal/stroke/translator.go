// Package stroke turns pointer drag gestures into line segments on a canvas.
package stroke

import (
	"image"

	"github.com/ha1tch/sketchpad/internal/canvas"
)

// Buttons is the set of pointer buttons held during an event.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle

	NoButtons Buttons = 0
)

// State of the translator.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "DRAGGING"
	}
	return "IDLE"
}

// Target is the surface a stroke is drawn on: a drawable canvas that can
// also checkpoint itself and report its pens.
type Target interface {
	canvas.Drawable
	Checkpoint()
	Pen() canvas.Pen
	Eraser() canvas.Pen
}

var _ Target = (*canvas.Canvas)(nil)

// Translator is a two-state machine: a press starts a stroke, moves with a
// button held draw segments, a release ends it.
type Translator struct {
	active func() Target
	redraw func()

	state  State
	target Target
	last   image.Point
}

// Option configures a Translator.
type Option func(*Translator)

// WithRedraw sets the callback fired after every drawn segment.
func WithRedraw(fn func()) Option {
	return func(t *Translator) { t.redraw = fn }
}

// New creates a translator that draws on whatever active returns at the
// moment a stroke begins.
func New(active func() Target, opts ...Option) *Translator {
	t := &Translator{active: active, redraw: func() {}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current state.
func (t *Translator) State() State { return t.state }

// Press starts a stroke at p. The target is checkpointed so the whole
// stroke undoes as one step.
func (t *Translator) Press(p image.Point) {
	if t.state == Dragging {
		t.last = p
		return
	}
	target := t.active()
	if target == nil {
		return
	}
	target.Checkpoint()
	t.target = target
	t.last = p
	t.state = Dragging
}

// Move draws from the last position to q. It is ignored outside a stroke
// or when no button is held.
func (t *Translator) Move(q image.Point, held Buttons) {
	if t.state != Dragging || held == NoButtons {
		return
	}
	pen := t.target.Pen()
	if held == ButtonSecondary {
		pen = t.target.Eraser()
	}
	t.target.DrawSegment(t.last, q, pen)
	t.last = q
	t.redraw()
}

// Release ends the stroke.
func (t *Translator) Release() {
	t.state = Idle
	t.target = nil
	t.last = image.Point{}
}
