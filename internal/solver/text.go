package solver

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// packNibbles pairs consecutive slot values as the high and low nibble of one
// byte. A trailing odd nibble is dropped.
func packNibbles(nibbles []int) []byte {
	out := make([]byte, len(nibbles)/2)
	for i := range out {
		out[i] = byte((nibbles[2*i]&0x0F)<<4 | nibbles[2*i+1]&0x0F)
	}
	return out
}

// decodeText interprets raw in charset. Bytes that do not decode are kept
// as they are.
func decodeText(raw []byte, charset encoding.Encoding) string {
	if charset == nil {
		return string(raw)
	}
	s, err := charset.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}

// Escape renders s for a terminal. Printable runes are kept; other runes
// become \u escapes and undecodable bytes become \x escapes.
func Escape(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\x%02X`, s[0])
		case unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			q := strconv.QuoteRuneToASCII(r)
			b.WriteString(q[1 : len(q)-1])
		}
		s = s[size:]
	}
	return b.String()
}
