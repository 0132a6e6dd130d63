package decoder

import (
	"iter"

	"golang.org/x/text/encoding"

	"github.com/Operative-001/sidelen/internal/solver"
	"github.com/Operative-001/sidelen/internal/window"
)

var fields = [...]solver.Field{solver.FieldSSID, solver.FieldPassphrase}

func tagFor(f solver.Field) int {
	if f == solver.FieldSSID {
		return SSIDTag
	}
	return PassphraseTag
}

// LengthDecoder decodes one link under one offset hypothesis. The offset is
// fixed for the decoder's lifetime.
type LengthDecoder struct {
	offset  int
	sizes   *window.Window[int]
	solvers [2]*solver.Solver
	tagSeen [2]bool

	notify func(solver.Result)
	rec    Recorder
}

// NewLengthDecoder creates a decoder for offset and seeds it with lengths
// observed before the hypothesis existed. notify, if non-nil, is called once
// per field when it is solved.
func NewLengthDecoder(offset int, previous iter.Seq[int], charset encoding.Encoding, notify func(solver.Result), rec Recorder) *LengthDecoder {
	if rec == nil {
		rec = nopRecorder{}
	}
	d := &LengthDecoder{
		offset: offset,
		sizes:  window.New[int](MaxSizes),
		notify: notify,
		rec:    rec,
	}
	for _, f := range fields {
		d.solvers[f] = solver.New(f, charset)
	}
	// The hypothesis is created on a likely SeparatorEnd, so the tag and
	// length that opened the burst are probably in the preceding lengths.
	if previous != nil {
		for length := range previous {
			d.sizes.Add(length - offset)
		}
	}
	return d
}

// Offset returns the hypothesis this decoder tests.
func (d *LengthDecoder) Offset() int { return d.offset }

// Observe consumes one raw length and reports whether both fields are solved.
// A tag marks the end of the other field's transmission, so seeing one
// triggers extraction for the other.
func (d *LengthDecoder) Observe(length int) bool {
	size := length - d.offset

	switch size {
	case SSIDTag:
		d.tagSeen[solver.FieldSSID] = true
		d.solve(solver.FieldPassphrase)
	case PassphraseTag:
		d.tagSeen[solver.FieldPassphrase] = true
		d.solve(solver.FieldSSID)
	}

	d.sizes.Add(size)
	return d.Solved()
}

func (d *LengthDecoder) solve(f solver.Field) {
	s := d.solvers[f]
	if !d.tagSeen[f] || s.Solved() {
		return
	}
	chunk, stats, ok := extract(d.sizes.Values(), tagFor(f))
	d.rec.ChunkExtracted(f, stats)
	if !ok {
		return
	}
	if s.Process(chunk) {
		d.rec.FieldSolved(f)
		if d.notify != nil {
			res, _ := s.Result()
			d.notify(res)
		}
	}
}

// Solved reports whether both fields are decoded.
func (d *LengthDecoder) Solved() bool {
	return d.solvers[solver.FieldSSID].Solved() && d.solvers[solver.FieldPassphrase].Solved()
}

// Result returns the decoded field f, if solved.
func (d *LengthDecoder) Result(f solver.Field) (solver.Result, bool) {
	return d.solvers[f].Result()
}
