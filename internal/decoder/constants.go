package decoder

// Normalized sizes used by the transmitter. A normalized size is a raw frame
// length minus the link's offset. These must match the transmitter exactly.
const (
	// SeparatorStart and SeparatorEnd bracket every data value. Their fixed
	// difference is what reveals a candidate offset.
	SeparatorStart = 3
	SeparatorEnd   = 23

	// SSIDTag and PassphraseTag open a transmission of their field.
	SSIDTag       = 0x577
	PassphraseTag = 0x5b3

	// LenMin..LenMax carry a field's byte count (LenMin means zero bytes).
	LenMin         = 28
	MaxSequenceLen = 32
	LenMax         = LenMin + MaxSequenceLen

	// DataMin..DataMax carry one chain-coded byte each.
	DataMin = 593
	DataMax = DataMin + 0xFF
)

// Window capacities. Busy networks interleave more foreign frames into a
// burst and may need larger values.
const (
	// MaxPreviousLengths is how many raw lengths a link remembers when looking
	// for a separator pair.
	MaxPreviousLengths = 16

	// MaxSizes is how many normalized sizes an offset hypothesis keeps; it must
	// span a full transmission of both fields.
	MaxSizes = 512
)

const separatorDelta = SeparatorEnd - SeparatorStart

func isLength(size int) bool { return size >= LenMin && size <= LenMax }

func isData(size int) bool { return size >= DataMin && size <= DataMax }
