// Package registry keeps the set of open canvases and tracks which one is
// active.
package registry

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ha1tch/sketchpad/internal/canvas"
	"github.com/ha1tch/sketchpad/internal/logging"
)

// Common errors for registry operations.
var (
	ErrNotFound   = errors.New("canvas not found")
	ErrLastCanvas = errors.New("cannot delete the last canvas")
	ErrNilCanvas  = errors.New("nil canvas")
)

// ID identifies a canvas. IDs start at 1 and are never reused.
type ID int

func (id ID) String() string { return fmt.Sprintf("Canvas %d", int(id)) }

// Entry is one row of the canvas list.
type Entry struct {
	ID     ID
	Label  string
	Active bool
}

// EventKind identifies a registry change.
type EventKind int

const (
	EventCreated EventKind = iota
	EventUpdated
	EventDeleted
	EventSwitched
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventDeleted:
		return "deleted"
	case EventSwitched:
		return "switched"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a change.
type Event struct {
	Kind   EventKind
	ID     ID
	Canvas *canvas.Canvas
}

// Factory builds a fresh canvas for Create.
type Factory func() *canvas.Canvas

// Registry maps IDs to canvases. It is not safe for concurrent use.
type Registry struct {
	items     map[ID]*canvas.Canvas
	order     []ID
	lastID    ID
	active    ID
	factory   Factory
	observers []func(Event)
	log       logrus.FieldLogger
}

// Option configures a Registry.
type Option func(*Registry)

// WithFactory sets how new canvases are built.
func WithFactory(f Factory) Option {
	return func(r *Registry) { r.factory = f }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		items: make(map[ID]*canvas.Canvas),
		factory: func() *canvas.Canvas {
			return canvas.New(canvas.DefaultWidth, canvas.DefaultHeight)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	return r
}

// Subscribe registers fn to receive every subsequent event.
func (r *Registry) Subscribe(fn func(Event)) {
	r.observers = append(r.observers, fn)
}

func (r *Registry) emit(kind EventKind, id ID, c *canvas.Canvas) {
	ev := Event{Kind: kind, ID: id, Canvas: c}
	for _, fn := range r.observers {
		fn(ev)
	}
}

// Create adds a new canvas under the next ID. The first canvas created
// becomes active.
func (r *Registry) Create() (ID, *canvas.Canvas) {
	r.lastID++
	id := r.lastID
	c := r.factory()
	r.items[id] = c
	r.order = append(r.order, id)
	if r.active == 0 {
		r.active = id
	}

	r.log.WithField("canvas_id", int(id)).Info("Canvas created")
	r.emit(EventCreated, id, c)
	return id, c
}

// Read returns the canvas stored under id.
func (r *Registry) Read(id ID) (*canvas.Canvas, error) {
	c, ok := r.items[id]
	if !ok {
		r.log.WithField("canvas_id", int(id)).Warn("Canvas with specified ID not found")
		return nil, fmt.Errorf("read %d: %w", int(id), ErrNotFound)
	}
	return c, nil
}

// Update replaces the canvas stored under id and notifies subscribers.
func (r *Registry) Update(id ID, c *canvas.Canvas) error {
	if c == nil {
		return fmt.Errorf("update %d: %w", int(id), ErrNilCanvas)
	}
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("update %d: %w", int(id), ErrNotFound)
	}
	r.items[id] = c

	r.log.WithFields(logrus.Fields{
		"canvas_id":   int(id),
		"history_len": c.HistoryLen(),
	}).Debug("Canvas updated")
	r.emit(EventUpdated, id, c)
	return nil
}

// Delete removes id. The last remaining canvas cannot be deleted. If id is
// active, the previous canvas in creation order (or the next, if id was
// first) becomes active.
func (r *Registry) Delete(id ID) error {
	c, ok := r.items[id]
	if !ok {
		return fmt.Errorf("delete %d: %w", int(id), ErrNotFound)
	}
	if len(r.items) == 1 {
		return fmt.Errorf("delete %d: %w", int(id), ErrLastCanvas)
	}

	pos := r.indexOf(id)
	delete(r.items, id)
	r.order = append(r.order[:pos], r.order[pos+1:]...)

	r.log.WithField("canvas_id", int(id)).Info("Canvas deleted")
	r.emit(EventDeleted, id, c)

	if r.active == id {
		next := r.order[max(pos-1, 0)]
		r.active = next
		r.emit(EventSwitched, next, r.items[next])
	}
	return nil
}

// Switch makes id the active canvas. The previously active canvas is left
// untouched.
func (r *Registry) Switch(id ID) error {
	c, ok := r.items[id]
	if !ok {
		return fmt.Errorf("switch %d: %w", int(id), ErrNotFound)
	}
	if r.active == id {
		return nil
	}
	r.active = id
	r.log.WithField("canvas_id", int(id)).Debug("Active canvas switched")
	r.emit(EventSwitched, id, c)
	return nil
}

// Active returns the active canvas, or 0 and nil if the registry is empty.
func (r *Registry) Active() (ID, *canvas.Canvas) {
	if r.active == 0 {
		return 0, nil
	}
	return r.active, r.items[r.active]
}

// Len returns the number of canvases.
func (r *Registry) Len() int { return len(r.items) }

// List returns the canvases in creation order.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Entry{ID: id, Label: id.String(), Active: id == r.active})
	}
	return out
}

func (r *Registry) indexOf(id ID) int {
	for i, v := range r.order {
		if v == id {
			return i
		}
	}
	return -1
}
