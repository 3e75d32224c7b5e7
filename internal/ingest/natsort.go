package ingest

import (
	"sort"
	"strings"
)

// NaturalSort sorts names in place so that digit runs compare numerically and
// everything else compares case-insensitively: track2 sorts before track10.
func NaturalSort(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})
}

// naturalLess reports whether a sorts before b in natural order.
func naturalLess(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for a != "" && b != "" {
		ca, restA := nextChunk(a)
		cb, restB := nextChunk(b)

		if ca != cb {
			if isDigits(ca) && isDigits(cb) {
				return numericLess(ca, cb)
			}
			return ca < cb
		}
		a, b = restA, restB
	}
	return len(a) < len(b)
}

// nextChunk splits off the leading run of digits or non-digits.
func nextChunk(s string) (chunk, rest string) {
	digits := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

// numericLess compares two digit runs by value without overflow: strip
// leading zeros, then shorter is smaller, then lexicographic.
func numericLess(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
