package decoder

// Test-side transmitter: produces the normalized sizes a provisioning device
// sends for one round of both fields.

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

func fieldSizes(tag int, text string) []int {
	out := []int{tag, LenMin + len(text)}
	for _, v := range chainEncode([]byte(text)) {
		out = append(out, SeparatorStart, SeparatorEnd, DataMin+v)
	}
	return out
}

func round(ssid, passphrase string) []int {
	return append(fieldSizes(SSIDTag, ssid), fieldSizes(PassphraseTag, passphrase)...)
}

func rounds(n int, ssid, passphrase string) []int {
	var out []int
	for i := 0; i < n; i++ {
		out = append(out, round(ssid, passphrase)...)
	}
	return out
}

func shift(sizes []int, offset int) []int {
	out := make([]int, len(sizes))
	for i, s := range sizes {
		out[i] = s + offset
	}
	return out
}
