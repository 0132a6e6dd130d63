package solver

import (
	"math"
	"slices"
)

// chainMask selects the half of a value that carries the masked slot index.
const chainMask = 0xF0

// slots holds, per target position, every value some observation placed there.
type slots []map[int]struct{}

func newSlots(n int) slots {
	s := make(slots, n)
	for i := range s {
		s[i] = make(map[int]struct{})
	}
	return s
}

func (s slots) add(index, value int) {
	if index >= 0 && index < len(s) {
		s[index][value] = struct{}{}
	}
}

func (s slots) hasHoles() bool {
	for _, set := range s {
		if len(set) == 0 {
			return true
		}
	}
	return false
}

// placeAlternative assigns each value of one observation to the slot it
// claims. The claimed index is only known mod 16, so it is lifted towards the
// position expected from the value's offset within the observation.
func (s slots) placeAlternative(data []int) {
	if len(data) == 0 {
		return
	}
	s.placeFirst(data)

	factor := float64(len(s)) / float64(len(data))
	previous := data[0]
	for pos := 1; pos < len(data); pos++ {
		current := data[pos]
		expected := int(math.Round(float64(pos) * factor))
		s.add(slotIndex(expected, current, previous), current)
		previous = current
	}
}

// placeFirst handles the value with no predecessor in its observation. A zero
// high nibble marks slot zero; otherwise the successor's index, minus one,
// locates it.
func (s slots) placeFirst(data []int) {
	first := data[0]
	if first&chainMask == 0 {
		s.add(0, first)
		return
	}
	if len(data) < 2 {
		return
	}
	if index := slotIndex(1, data[1], first); index > 0 {
		s.add(index-1, first)
	}
}

// slotIndex unmasks current's slot index using previous and lifts it by
// multiples of 16 until it is within 8 of expected.
func slotIndex(expected, current, previous int) int {
	index := ((current & chainMask) >> 4) ^ (previous & 0x0F)
	for expected-index > 8 {
		index += 16
	}
	return index
}

// chainHigh is the high nibble slot i must carry when the previous slot holds
// previous.
func chainHigh(i, previous int) int {
	return ((previous & 0x0F) ^ (i % 16)) << 4
}

// search finds the first assignment of one candidate per slot in which every
// slot after the first satisfies the chain against its predecessor. It walks
// slots in order with an explicit stack so depth is not limited by the
// goroutine stack.
func (s slots) search() ([]int, bool) {
	n := len(s)
	chosen := make([]int, n)
	candidates := make([][]int, n)
	next := make([]int, n)

	candidates[0] = sortedValues(s[0])
	level := 0
	for level >= 0 {
		if next[level] == len(candidates[level]) {
			level--
			continue
		}
		chosen[level] = candidates[level][next[level]]
		next[level]++
		if level == n-1 {
			return chosen, true
		}
		level++
		candidates[level] = s.prune(level, chosen[level-1])
		next[level] = 0
	}
	return nil, false
}

func (s slots) prune(i, previous int) []int {
	want := chainHigh(i, previous)
	var out []int
	for v := range s[i] {
		if v&chainMask == want {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func sortedValues(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
