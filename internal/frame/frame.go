// Package frame acquires (source, destination, length) observations from
// captured traffic and hands them to the decoder in arrival order.
//
// Readers validate their input; anything that reaches the decoder is already
// well-formed. The frame payload itself is never inspected.
package frame

import (
	"errors"
	"fmt"
	"io"
)

// Frame is one observed frame: who sent it, to whom, and how long it was.
type Frame struct {
	Source      string
	Destination string
	Length      int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s -> %s len=%d", f.Source, f.Destination, f.Length)
}

// ErrMalformed is returned for an input record that cannot be turned into a
// Frame. The reader stays usable; callers typically count and skip it.
var ErrMalformed = errors.New("frame: malformed record")

// Source yields frames in arrival order. Next returns io.EOF once input is
// exhausted.
type Source interface {
	Next() (Frame, error)
}

// Drain calls fn for every frame from src until fn returns true, input ends or
// a non-malformed error occurs. Malformed records are counted and skipped.
// It reports whether fn ever returned true.
func Drain(src Source, fn func(Frame) bool) (found bool, skipped int, err error) {
	for {
		f, err := src.Next()
		if err != nil {
			if errors.Is(err, ErrMalformed) {
				skipped++
				continue
			}
			if errors.Is(err, io.EOF) {
				return false, skipped, nil
			}
			return false, skipped, err
		}
		if fn(f) {
			return true, skipped, nil
		}
	}
}
