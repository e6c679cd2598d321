package rules

import "strconv"

const (
	// DefaultMin and DefaultMax bound the neighbor counts a mask can select
	DefaultMin = 1
	DefaultMax = 26

	maskBits = 32
)

// ParseFlags turns a trigger list such as "1-3, 5" into a bitmask over the
// neighbor counts DefaultMin..DefaultMax.
func ParseFlags(s string) uint32 {
	return ParseFlagsRange(s, DefaultMin, DefaultMax)
}

// ParseFlagsRange scans numbers and '-' splitters, ignoring everything else.
// A number preceded by a splitter closes a range A-B with the previous number,
// even across other separators ("1 - 3", "1,-3"); range bounds are clamped
// into [lo, hi] and single numbers outside it are dropped. Malformed input is
// ignored, never rejected.
func ParseFlagsRange(s string, lo, hi int) uint32 {
	lo, hi = max(lo, 0), min(hi, maskBits-1)
	var (
		mask     uint32
		last     = -1
		splitter bool
	)
	single := func(n int) {
		if n >= lo && n <= hi {
			mask |= 1 << uint(n)
		}
	}
	for i := 0; i < len(s); {
		switch {
		case isDigit(s[i]):
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			// out of range values saturate and fall outside [lo, hi]
			n, _ := strconv.Atoi(s[i:j])
			i = j
			if splitter && last >= 0 {
				// "1-2-3" reads as the range 1-2 followed by 3
				for v := max(last, lo); v <= min(n, hi); v++ {
					mask |= 1 << uint(v)
				}
				last = -1
			} else {
				single(last)
				last = n
			}
			splitter = false
		case s[i] == '-':
			splitter = true
			i++
		default:
			i++
		}
	}
	single(last)
	return mask
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
