package decoder

import (
	"iter"

	"github.com/Operative-001/sidelen/internal/solver"
)

// Stats describes one extraction attempt. It is diagnostic only and helps
// tune window capacities for a given network.
type Stats struct {
	TagFound          bool
	Produced          bool // a chunk was handed to the solver
	Chunks            int  // complete separator-delimited runs after the tag
	EmptyChunks       int
	SpammedChunks     int // runs holding more than one value
	MaxChunkSpam      int
	SpammedSeparators int // separator pairs with foreign values between them
	MaxSeparatorSpam  int
}

// extract builds a chunk from the values that follow the most recent
// occurrence of tag in sizes. Values before that occurrence belong to older
// transmissions and are ignored.
func extract(sizes iter.Seq[int], tag int) (solver.Chunk, Stats, bool) {
	var stats Stats
	var run []int
	for size := range sizes {
		if size == tag {
			stats.TagFound = true
			run = run[:0]
			continue
		}
		if stats.TagFound {
			run = append(run, size)
		}
	}
	if len(run) == 0 {
		return solver.Chunk{}, stats, false
	}
	stats.analyze(run)

	var chunk solver.Chunk
	inLengths := true
	for _, size := range run {
		if inLengths {
			if isLength(size) {
				chunk.Lengths = append(chunk.Lengths, size-LenMin)
				continue
			}
			if len(chunk.Lengths) == 0 {
				continue
			}
			inLengths = false
		}
		if isData(size) {
			chunk.Data = append(chunk.Data, size-DataMin)
		}
	}
	if len(chunk.Lengths) == 0 {
		return solver.Chunk{}, stats, false
	}
	stats.Produced = true
	return chunk, stats, true
}

// analyze segments run by separator pairs. A data run is the stretch between
// SeparatorEnd and the next SeparatorStart; the run still open at the end is
// incomplete and not counted.
func (s *Stats) analyze(run []int) {
	inSeparator := false
	open := false
	var chunk, separatorSpam int

	for _, size := range run {
		switch {
		case inSeparator && size == SeparatorEnd:
			inSeparator = false
			if separatorSpam > 0 {
				s.SpammedSeparators++
				s.MaxSeparatorSpam = max(s.MaxSeparatorSpam, separatorSpam)
			}
			open = true
			chunk = 0
		case inSeparator:
			separatorSpam++
		case size == SeparatorStart:
			if open {
				s.closeChunk(chunk)
			}
			inSeparator = true
			separatorSpam = 0
		default:
			chunk++
		}
	}
}

func (s *Stats) closeChunk(size int) {
	s.Chunks++
	switch {
	case size == 0:
		s.EmptyChunks++
	case size > 1:
		s.SpammedChunks++
		s.MaxChunkSpam = max(s.MaxChunkSpam, size-1)
	}
}
