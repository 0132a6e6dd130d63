package decoder

import "github.com/Operative-001/sidelen/internal/solver"

// Recorder receives diagnostic events from the decoder. Implementations must
// not block; events never influence decoding.
type Recorder interface {
	FrameObserved()
	HypothesisCreated(link Link, offset int)
	ChunkExtracted(field solver.Field, stats Stats)
	FieldSolved(field solver.Field)
	LinkSolved(link Link)
}

type nopRecorder struct{}

func (nopRecorder) FrameObserved()                     {}
func (nopRecorder) HypothesisCreated(Link, int)        {}
func (nopRecorder) ChunkExtracted(solver.Field, Stats) {}
func (nopRecorder) FieldSolved(solver.Field)           {}
func (nopRecorder) LinkSolved(Link)                    {}
