// Package window implements a fixed-capacity eviction window over recent
// observations.
//
// Adding past capacity silently drops the oldest value. Memory is bounded by
// the capacity chosen at construction and never grows beyond it.
package window

import "iter"

// Window is a FIFO ring of at most Cap values. It is not safe for concurrent
// use; each owner holds its own window.
type Window[T any] struct {
	buf  []T
	head int // index of the oldest value
	size int
}

// New creates a Window holding at most capacity values. A capacity below one
// is treated as one.
func New[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{buf: make([]T, capacity)}
}

// Add appends v, evicting the oldest value if the window is full.
func (w *Window[T]) Add(v T) {
	if w.size < len(w.buf) {
		w.buf[(w.head+w.size)%len(w.buf)] = v
		w.size++
		return
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// Values yields the current contents oldest first. The sequence may be ranged
// over any number of times; mutating the window while ranging is not allowed.
func (w *Window[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < w.size; i++ {
			if !yield(w.buf[(w.head+i)%len(w.buf)]) {
				return
			}
		}
	}
}

// Slice returns a copy of the current contents, oldest first.
func (w *Window[T]) Slice() []T {
	out := make([]T, 0, w.size)
	for v := range w.Values() {
		out = append(out, v)
	}
	return out
}

// Len returns the number of values currently held.
func (w *Window[T]) Len() int { return w.size }

// Cap returns the configured capacity.
func (w *Window[T]) Cap() int { return len(w.buf) }
