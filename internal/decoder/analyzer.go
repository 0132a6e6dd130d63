// Package decoder recovers provisioning credentials from the lengths of
// frames a device broadcasts before it has joined a network.
//
// The transmitter encodes every value as a deliberate frame length. Each
// frame is observed with an unknown constant added by the link's encryption
// layer, so the decoder tracks every plausible offset in parallel and lets
// the one that yields a consistent decode of both fields prove itself.
//
// Nothing here returns an error. Input that does not fit is absorbed or
// dropped, and a link that never decodes simply stays unsolved; imposing a
// time or frame budget is up to the caller.
package decoder

import (
	"slices"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/Operative-001/sidelen/internal/frame"
	"github.com/Operative-001/sidelen/internal/solver"
)

// Config configures an Analyzer.
type Config struct {
	// Charset decodes field bytes to text. Nil keeps the bytes as they are.
	Charset encoding.Encoding

	// OnSolved, if set, is called once per field per offset hypothesis when
	// the field is decoded. Hypotheses with the wrong offset can solve a
	// single field by accident (typically to an empty string); only
	// Credentials reports a link whose two fields came from one hypothesis.
	OnSolved func(Solution)

	// Recorder receives diagnostics; defaults to a no-op.
	Recorder Recorder
}

// Solution is one decoded field.
type Solution struct {
	Link   Link
	Offset int
	Field  solver.Field
	Text   string
	Raw    []byte
}

// Credentials are both fields of a fully decoded link.
type Credentials struct {
	Link       Link
	Offset     int
	SSID       string
	Passphrase string
}

// Analyzer routes frames to a per-link manager. It is not safe for
// concurrent use; frames are processed one at a time in arrival order.
type Analyzer struct {
	cfg      Config
	managers map[Link]*linkManager
	done     map[Link]Credentials
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	return &Analyzer{
		cfg:      cfg,
		managers: make(map[Link]*linkManager),
		done:     make(map[Link]Credentials),
	}
}

// Process consumes one frame and reports whether its link is fully decoded.
// Frames for a link that is already decoded are not processed further.
func (a *Analyzer) Process(source, destination string, length int) bool {
	a.cfg.Recorder.FrameObserved()

	link := Link{Source: source, Destination: destination}
	if _, ok := a.done[link]; ok {
		return true
	}

	m, ok := a.managers[link]
	if !ok {
		m = newLinkManager(link, &a.cfg)
		a.managers[link] = m
	}
	if !m.observe(length) {
		return false
	}

	if creds, ok := m.credentials(); ok {
		a.done[link] = creds
		a.cfg.Recorder.LinkSolved(link)
	}
	return true
}

// Observe is Process for a captured frame.
func (a *Analyzer) Observe(f frame.Frame) bool {
	return a.Process(f.Source, f.Destination, f.Length)
}

// Credentials returns the decoded fields of link, if it is fully decoded.
func (a *Analyzer) Credentials(link Link) (Credentials, bool) {
	c, ok := a.done[link]
	return c, ok
}

// Solved returns every fully decoded link, ordered by link.
func (a *Analyzer) Solved() []Credentials {
	out := make([]Credentials, 0, len(a.done))
	for _, c := range a.done {
		out = append(out, c)
	}
	slices.SortFunc(out, func(x, y Credentials) int {
		return strings.Compare(x.Link.String(), y.Link.String())
	})
	return out
}

// Links returns how many links have been seen.
func (a *Analyzer) Links() int { return len(a.managers) }

// Hypotheses returns how many offset hypotheses are tracked across all links.
func (a *Analyzer) Hypotheses() int {
	n := 0
	for _, m := range a.managers {
		n += len(m.decoders)
	}
	return n
}
