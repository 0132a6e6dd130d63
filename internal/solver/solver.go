// Package solver reassembles one secret field from noisy chain-coded
// observations.
//
// Every transmitted value is a byte whose low nibble is payload and whose high
// nibble is the value's slot index (mod 16) XORed with the low nibble of the
// value in the previous slot. A single observation rarely covers every slot, so
// the solver keeps every observation it is given, places each value into the
// slot it claims, and searches for one assignment that satisfies the chain
// between every pair of adjacent slots.
package solver

import (
	"golang.org/x/text/encoding"

	"github.com/Operative-001/sidelen/internal/counter"
)

// Field identifies which secret a solver reconstructs.
type Field int

const (
	FieldSSID Field = iota
	FieldPassphrase
)

func (f Field) String() string {
	switch f {
	case FieldSSID:
		return "SSID"
	case FieldPassphrase:
		return "passphrase"
	default:
		return "unknown"
	}
}

// Chunk is one observed burst following a tag. Lengths are candidate byte
// counts for the field; Data are chain-coded values in observation order.
type Chunk struct {
	Lengths []int
	Data    []int
}

// Result is a decoded field.
type Result struct {
	Field   Field
	Nibbles []int  // slot values in slot order
	Raw     []byte // payload bytes, two nibbles each
	Text    string // Raw decoded with the solver's charset
}

// Solver accumulates chunks for one field until a consistent decode exists.
// Once solved it ignores further input.
type Solver struct {
	field        Field
	charset      encoding.Encoding
	lengths      *counter.Counter[int]
	alternatives [][]int
	solved       bool
	result       Result
}

// New returns a Solver for field. A nil charset leaves decoded bytes as-is
// (UTF-8 is assumed but not enforced).
func New(field Field, charset encoding.Encoding) *Solver {
	return &Solver{
		field:   field,
		charset: charset,
		lengths: counter.New[int](),
	}
}

// Field returns the field this solver reconstructs.
func (s *Solver) Field() Field { return s.field }

// Solved reports whether a result has been found.
func (s *Solver) Solved() bool { return s.solved }

// Result returns the decoded field, if solved.
func (s *Solver) Result() (Result, bool) {
	return s.result, s.solved
}

// Alternatives returns how many data observations have been merged.
func (s *Solver) Alternatives() int { return len(s.alternatives) }

// Process merges c and retries the decode. It returns true only on the call
// that solves the field.
func (s *Solver) Process(c Chunk) bool {
	if s.solved {
		return false
	}
	s.lengths.AddAll(c.Lengths)
	s.alternatives = append(s.alternatives, append([]int(nil), c.Data...))
	return s.place()
}

func (s *Solver) place() bool {
	n := s.nibbleCount()
	if n == 0 {
		s.finish(nil)
		return true
	}

	slots := newSlots(n)
	for _, data := range s.alternatives {
		slots.placeAlternative(data)
	}
	if slots.hasHoles() {
		return false
	}

	nibbles, ok := slots.search()
	if !ok {
		return false
	}
	s.finish(nibbles)
	return true
}

// nibbleCount picks the most frequently seen length, preferring the smallest
// on a tie. Each length is a byte count, so the nibble count is twice that.
func (s *Solver) nibbleCount() int {
	maxima := s.lengths.Maxima()
	if len(maxima) == 0 {
		return 0
	}
	return 2 * maxima[0]
}

func (s *Solver) finish(nibbles []int) {
	raw := packNibbles(nibbles)
	s.result = Result{
		Field:   s.field,
		Nibbles: nibbles,
		Raw:     raw,
		Text:    decodeText(raw, s.charset),
	}
	s.solved = true
}
