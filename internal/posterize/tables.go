package posterize

import "math"

const highThreshold = 127

var (
	highDark  = [2]byte{'A', 'C'}
	highLight = [2]byte{'T', 'G'}
)

// mediumCodes is an arbitrary fixed bijection, not a base-4 numeral. Encoded
// files depend on it verbatim.
var mediumCodes = map[uint8][2]byte{
	0:   {'A', 'C'},
	50:  {'G', 'T'},
	100: {'T', 'C'},
	150: {'G', 'A'},
	200: {'C', 'G'},
	250: {'A', 'T'},
}

var mediumValues = func() map[[2]byte]uint8 {
	out := make(map[[2]byte]uint8, len(mediumCodes))
	for v, code := range mediumCodes {
		out[code] = v
	}
	return out
}()

var (
	highTable   = buildTable(threshold)
	mediumTable = buildTable(roundTo(50))
	lowTable    = buildTable(roundTo(5))
)

func threshold(v int) int {
	if v >= highThreshold {
		return 255
	}
	return 0
}

// roundTo rounds half to even (25 -> 0, 75 -> 100) so existing encodings
// quantize identically.
func roundTo(step int) func(int) int {
	return func(v int) int {
		return int(math.RoundToEven(float64(v)/float64(step))) * step
	}
}

func buildTable(fn func(int) int) [256]uint8 {
	var t [256]uint8
	for v := range t {
		t[v] = uint8(fn(v))
	}
	return t
}
