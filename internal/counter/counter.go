// Package counter tallies how often values are observed.
package counter

import (
	"cmp"
	"slices"
)

// Counter maps observed values to occurrence counts.
type Counter[T cmp.Ordered] struct {
	counts map[T]int
}

// New returns an empty Counter.
func New[T cmp.Ordered]() *Counter[T] {
	return &Counter[T]{counts: make(map[T]int)}
}

// Add increments the count for v.
func (c *Counter[T]) Add(v T) {
	c.counts[v]++
}

// AddAll increments the count for every value in vs.
func (c *Counter[T]) AddAll(vs []T) {
	for _, v := range vs {
		c.Add(v)
	}
}

// Count returns how many times v was added.
func (c *Counter[T]) Count(v T) int { return c.counts[v] }

// Len returns the number of distinct values seen.
func (c *Counter[T]) Len() int { return len(c.counts) }

// Maxima returns every value whose count equals the highest count, in
// ascending order. It returns nil if nothing was added. Choosing between
// ties is left to the caller.
func (c *Counter[T]) Maxima() []T {
	best := 0
	var out []T
	for v, n := range c.counts {
		switch {
		case n > best:
			best = n
			out = append(out[:0], v)
		case n == best:
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
