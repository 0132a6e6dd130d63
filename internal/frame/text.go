package frame

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column layout of a text record: bssid, channel, source, destination,
// length. The bssid and channel are currently ignored.
const (
	textColumns  = 5
	colSource    = 2
	colDest      = 3
	colLength    = 4
	maxLineBytes = 64 * 1024
)

// TextReader reads tab-separated frame records, one per line, as produced by
// field-extracting packet tools.
type TextReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewTextReader reads records from r.
func NewTextReader(r io.Reader) *TextReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &TextReader{scanner: s}
}

// Next returns the next record. Malformed lines yield an error wrapping
// ErrMalformed and are consumed.
func (t *TextReader) Next() (Frame, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return Frame{}, fmt.Errorf("frame: read line %d: %w", t.line+1, err)
		}
		return Frame{}, io.EOF
	}
	t.line++
	f, err := ParseLine(t.scanner.Text())
	if err != nil {
		return Frame{}, fmt.Errorf("line %d: %w", t.line, err)
	}
	return f, nil
}

// ParseLine parses one tab-separated record. Every column must be present
// and non-empty, and the length must be a non-negative integer.
func ParseLine(line string) (Frame, error) {
	tokens := strings.Split(strings.TrimRight(line, "\r"), "\t")
	if len(tokens) != textColumns {
		return Frame{}, fmt.Errorf("%w: %d columns, want %d", ErrMalformed, len(tokens), textColumns)
	}
	for i, tok := range tokens {
		if tok == "" {
			return Frame{}, fmt.Errorf("%w: column %d empty", ErrMalformed, i+1)
		}
	}
	length, err := strconv.Atoi(tokens[colLength])
	if err != nil || length < 0 {
		return Frame{}, fmt.Errorf("%w: bad length %q", ErrMalformed, tokens[colLength])
	}
	return Frame{
		Source:      tokens[colSource],
		Destination: tokens[colDest],
		Length:      length,
	}, nil
}

// FormatLine renders f as a text record with the ignored columns set to "-".
func FormatLine(f Frame) string {
	return strings.Join([]string{"-", "-", f.Source, f.Destination, strconv.Itoa(f.Length)}, "\t")
}
