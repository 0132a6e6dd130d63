package decoder

import (
	"github.com/Operative-001/sidelen/internal/solver"
	"github.com/Operative-001/sidelen/internal/window"
)

// linkManager tracks every offset hypothesis for one link. Hypotheses that
// never solve are kept; they cost a bounded window each.
type linkManager struct {
	link     Link
	cfg      *Config
	previous *window.Window[int]
	decoders map[int]*LengthDecoder
	order    []int // offsets in creation order
}

func newLinkManager(link Link, cfg *Config) *linkManager {
	return &linkManager{
		link:     link,
		cfg:      cfg,
		previous: window.New[int](MaxPreviousLengths),
		decoders: make(map[int]*LengthDecoder),
	}
}

// observe reports whether any hypothesis has solved both fields.
func (m *linkManager) observe(length int) bool {
	// Frames whose lengths differ by the separator delta are a candidate
	// SeparatorStart/SeparatorEnd pair; the difference to SeparatorStart is
	// the size the encryption layer added.
	for old := range m.previous.Values() {
		if length-old != separatorDelta {
			continue
		}
		offset := old - SeparatorStart
		if _, ok := m.decoders[offset]; ok {
			continue
		}
		m.decoders[offset] = NewLengthDecoder(offset, m.previous.Values(), m.cfg.Charset, m.notifier(offset), m.cfg.Recorder)
		m.order = append(m.order, offset)
		m.cfg.Recorder.HypothesisCreated(m.link, offset)
	}

	solved := false
	for _, offset := range m.order {
		if m.decoders[offset].Observe(length) {
			solved = true
		}
	}

	m.previous.Add(length)
	return solved
}

func (m *linkManager) notifier(offset int) func(solver.Result) {
	return func(r solver.Result) {
		if m.cfg.OnSolved == nil {
			return
		}
		m.cfg.OnSolved(Solution{
			Link:   m.link,
			Offset: offset,
			Field:  r.Field,
			Text:   r.Text,
			Raw:    r.Raw,
		})
	}
}

// credentials returns the first hypothesis, in creation order, that solved
// both fields.
func (m *linkManager) credentials() (Credentials, bool) {
	for _, offset := range m.order {
		d := m.decoders[offset]
		if !d.Solved() {
			continue
		}
		ssid, _ := d.Result(solver.FieldSSID)
		pass, _ := d.Result(solver.FieldPassphrase)
		return Credentials{
			Link:       m.link,
			Offset:     offset,
			SSID:       ssid.Text,
			Passphrase: pass.Text,
		}, true
	}
	return Credentials{}, false
}
