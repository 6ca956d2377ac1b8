// Package history provides a bounded undo stack.
//
// Entries are retrieved last-in first-out. When the stack is full the
// oldest entry is dropped to make room for the new one.
package history

// DefaultCapacity is the number of entries kept when no capacity is given.
const DefaultCapacity = 20

// History is a fixed-capacity ring of entries.
type History[T any] struct {
	entries []T
	head    int // index of the oldest entry
	size    int
}

// New creates a history that keeps at most capacity entries.
func New[T any](capacity int) *History[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History[T]{entries: make([]T, capacity)}
}

// Push appends v, evicting the oldest entry if the history is full.
func (h *History[T]) Push(v T) {
	if h.size == len(h.entries) {
		var zero T
		h.entries[h.head] = zero
		h.head = (h.head + 1) % len(h.entries)
		h.size--
	}
	h.entries[(h.head+h.size)%len(h.entries)] = v
	h.size++
}

// Pop removes and returns the most recent entry.
// ok is false when the history is empty.
func (h *History[T]) Pop() (v T, ok bool) {
	if h.size == 0 {
		return v, false
	}
	i := (h.head + h.size - 1) % len(h.entries)
	v = h.entries[i]
	var zero T
	h.entries[i] = zero
	h.size--
	return v, true
}

// Peek returns the most recent entry without removing it.
func (h *History[T]) Peek() (v T, ok bool) {
	if h.size == 0 {
		return v, false
	}
	return h.entries[(h.head+h.size-1)%len(h.entries)], true
}

// Len returns the number of stored entries.
func (h *History[T]) Len() int { return h.size }

// Cap returns the fixed capacity.
func (h *History[T]) Cap() int { return len(h.entries) }

// Reset drops every entry.
func (h *History[T]) Reset() {
	clear(h.entries)
	h.head = 0
	h.size = 0
}
