package solver

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// chainEncode produces the values a transmitter sends for payload, in slot
// order.
func chainEncode(payload []byte) []int {
	var out []int
	previous := 0
	for _, b := range payload {
		for _, nibble := range []int{int(b >> 4), int(b & 0x0F)} {
			v := ((len(out)%16)^(previous&0x0F))<<4 | nibble
			out = append(out, v)
			previous = v
		}
	}
	return out
}

func mustSolve(t *testing.T, s *Solver) Result {
	t.Helper()
	res, ok := s.Result()
	if !ok {
		t.Fatal("solver not solved")
	}
	return res
}

func TestChainEncodeKnownValues(t *testing.T) {
	got := chainEncode([]byte("AB"))
	want := []int{0x04, 0x51, 0x34, 0x72}
	if len(got) != len(want) {
		t.Fatalf("got %x want %x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value %d: got %#x want %#x", i, got[i], want[i])
		}
	}
}

func TestSingleAlternativeRoundTrip(t *testing.T) {
	s := New(FieldSSID, nil)
	if !s.Process(Chunk{Lengths: []int{2}, Data: chainEncode([]byte("AB"))}) {
		t.Fatal("expected Process to solve")
	}
	res := mustSolve(t, s)
	if res.Text != "AB" {
		t.Fatalf("got %q want %q", res.Text, "AB")
	}
	if res.Field != FieldSSID {
		t.Fatalf("field = %v", res.Field)
	}
}

func TestSplitAlternativesWithOverlap(t *testing.T) {
	data := chainEncode([]byte("AB"))
	s := New(FieldPassphrase, nil)

	if s.Process(Chunk{Lengths: []int{2}, Data: data[:2]}) {
		t.Fatal("half the slots should not solve")
	}
	if s.Solved() {
		t.Fatal("Solved() true with holes")
	}
	if !s.Process(Chunk{Lengths: []int{2}, Data: data[1:]}) {
		t.Fatal("second half should complete the decode")
	}
	if got := mustSolve(t, s).Text; got != "AB" {
		t.Fatalf("got %q want %q", got, "AB")
	}
	if s.Alternatives() != 2 {
		t.Fatalf("Alternatives = %d, want 2", s.Alternatives())
	}
}

func TestDuplicateValueSpam(t *testing.T) {
	data := chainEncode([]byte("AB"))
	spammed := []int{data[0], data[1], data[1], data[2], data[3]}

	s := New(FieldSSID, nil)
	s.Process(Chunk{Lengths: []int{2}, Data: spammed})
	if got := mustSolve(t, s).Text; got != "AB" {
		t.Fatalf("got %q want %q", got, "AB")
	}
}

func TestLongPayloadLiftsIndices(t *testing.T) {
	payloads := []string{
		"0123456789abcdefghij",
		strings.Repeat("x", 32),
		"correct horse battery staple",
	}
	for _, p := range payloads {
		t.Run(p, func(t *testing.T) {
			s := New(FieldPassphrase, nil)
			s.Process(Chunk{Lengths: []int{len(p)}, Data: chainEncode([]byte(p))})
			if got := mustSolve(t, s).Text; got != p {
				t.Fatalf("got %q want %q", got, p)
			}
		})
	}
}

func TestLongPayloadAcrossPartialObservations(t *testing.T) {
	p := "0123456789abcdefghij"
	data := chainEncode([]byte(p))
	without := func(from, to int) []int {
		return append(append([]int{}, data[:from]...), data[to:]...)
	}
	s := New(FieldSSID, nil)

	// Each observation lost a different stretch of slots.
	s.Process(Chunk{Lengths: []int{len(p)}, Data: without(10, 14)})
	if s.Solved() {
		t.Fatal("slots 10..13 were never observed")
	}
	s.Process(Chunk{Lengths: []int{len(p)}, Data: without(30, 34)})
	if got := mustSolve(t, s).Text; got != p {
		t.Fatalf("got %q want %q", got, p)
	}
}

func TestSolvedIsImmutable(t *testing.T) {
	s := New(FieldSSID, nil)
	s.Process(Chunk{Lengths: []int{2}, Data: chainEncode([]byte("AB"))})
	before := mustSolve(t, s)

	if s.Process(Chunk{Lengths: []int{2, 2, 2}, Data: chainEncode([]byte("CD"))}) {
		t.Fatal("Process on a solved solver reported a new solve")
	}
	after := mustSolve(t, s)
	if after.Text != before.Text {
		t.Fatalf("result changed from %q to %q", before.Text, after.Text)
	}
	if s.Alternatives() != 1 {
		t.Fatalf("solved solver kept accepting input: %d alternatives", s.Alternatives())
	}
}

func TestNibbleCountPrefersSmallestTie(t *testing.T) {
	s := New(FieldSSID, nil)
	s.lengths.AddAll([]int{3, 5, 3, 5, 7})
	if got := s.nibbleCount(); got != 6 {
		t.Fatalf("nibbleCount = %d, want 6", got)
	}
}

func TestMajorityLengthWins(t *testing.T) {
	data := chainEncode([]byte("AB"))
	s := New(FieldSSID, nil)
	s.Process(Chunk{Lengths: []int{2, 5, 2}, Data: data})
	if got := mustSolve(t, s).Text; got != "AB" {
		t.Fatalf("got %q want %q", got, "AB")
	}
}

func TestZeroLengthSolvesEmpty(t *testing.T) {
	s := New(FieldPassphrase, nil)
	if !s.Process(Chunk{Lengths: []int{0}}) {
		t.Fatal("zero length should solve immediately")
	}
	res := mustSolve(t, s)
	if res.Text != "" || len(res.Raw) != 0 {
		t.Fatalf("expected empty result, got %q", res.Text)
	}
}

func TestNoLengthsSolvesEmpty(t *testing.T) {
	s := New(FieldPassphrase, nil)
	s.Process(Chunk{Data: []int{0x04}})
	if got := mustSolve(t, s).Text; got != "" {
		t.Fatalf("got %q want empty", got)
	}
}

func TestBrokenChainStaysUnsolved(t *testing.T) {
	// 0x61 claims slot 1 only if slot 0's low nibble were 7.
	s := New(FieldSSID, nil)
	s.Process(Chunk{Lengths: []int{1}, Data: []int{0x04, 0x61}})
	if s.Solved() {
		t.Fatal("inconsistent chain must not solve")
	}
}

func TestSearchPicksConsistentCandidate(t *testing.T) {
	sl := newSlots(2)
	sl.add(0, 0x04)
	sl.add(0, 0x07)
	sl.add(1, 0x51)

	got, ok := sl.search()
	if !ok {
		t.Fatal("expected a solution")
	}
	if got[0] != 0x04 || got[1] != 0x51 {
		t.Fatalf("got %x", got)
	}
}

func TestSearchBacktracks(t *testing.T) {
	// 0x03 leads to a dead end at slot 2; only 0x04 completes the chain.
	sl := newSlots(3)
	sl.add(0, 0x03)
	sl.add(0, 0x04)
	sl.add(1, 0x22) // (3^1)<<4, low nibble 2 wants 0x0_ next
	sl.add(1, 0x51) // (4^1)<<4
	sl.add(2, 0x3A) // (1^2)<<4, only reachable through 0x51
	sl.add(2, 0xF0)

	got, ok := sl.search()
	if !ok {
		t.Fatal("expected a solution")
	}
	if got[0] != 0x04 || got[1] != 0x51 || got[2] != 0x3A {
		t.Fatalf("got %x", got)
	}
}

func TestSearchNoSolution(t *testing.T) {
	sl := newSlots(2)
	sl.add(0, 0x04)
	sl.add(1, 0x61)
	if _, ok := sl.search(); ok {
		t.Fatal("expected no solution")
	}
}

func TestCharsetDecoding(t *testing.T) {
	payload := []byte{'c', 0xE9}

	raw := New(FieldSSID, nil)
	raw.Process(Chunk{Lengths: []int{2}, Data: chainEncode(payload)})
	if got := mustSolve(t, raw).Text; got != "c\xe9" {
		t.Fatalf("raw decode: got %q", got)
	}

	latin := New(FieldSSID, charmap.ISO8859_1)
	latin.Process(Chunk{Lengths: []int{2}, Data: chainEncode(payload)})
	if got := mustSolve(t, latin).Text; got != "cé" {
		t.Fatalf("latin-1 decode: got %q", got)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"café", "café"},
		{"a\x00b", `a\x00b`},
		{"tab\there", `tab\there`},
		{"bad\xffbyte", `bad\xFFbyte`},
	}
	for _, tc := range tests {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFieldString(t *testing.T) {
	if FieldSSID.String() != "SSID" || FieldPassphrase.String() != "passphrase" {
		t.Fatal("unexpected field names")
	}
}
