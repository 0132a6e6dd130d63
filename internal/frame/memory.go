package frame

import "io"

// MemorySource replays a fixed list of frames. Intended for tests.
type MemorySource struct {
	frames []Frame
	pos    int
}

// NewMemory returns a MemorySource over frames.
func NewMemory(frames ...Frame) *MemorySource {
	return &MemorySource{frames: frames}
}

// Append queues more frames behind the ones not yet read.
func (m *MemorySource) Append(frames ...Frame) {
	m.frames = append(m.frames, frames...)
}

func (m *MemorySource) Next() (Frame, error) {
	if m.pos >= len(m.frames) {
		return Frame{}, io.EOF
	}
	f := m.frames[m.pos]
	m.pos++
	return f, nil
}

// Remaining returns how many frames have not been read yet.
func (m *MemorySource) Remaining() int { return len(m.frames) - m.pos }
