package depspec

import "strings"

// Compare orders two pacman version strings of the form
// [epoch:]version[-release] and returns -1, 0 or 1.
//
// Epochs compare first (a missing epoch is 0), then versions, and releases
// only when both sides carry one, so "1.0" equals "1.0-3". Within each part
// the string is split into alternating runs of digits and letters separated
// by non-alphanumerics: numeric runs compare by value, alphabetic runs
// lexically, a numeric run is newer than an alphabetic one, and a longer
// separator is newer. When one side runs out, a trailing alphabetic run
// (as in "1.0rc") is older than the shorter version, anything else is newer.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	epochA, verA, relA := splitEVR(a)
	epochB, verB, relB := splitEVR(b)

	if ret := compareSegments(epochA, epochB); ret != 0 {
		return ret
	}
	ret := compareSegments(verA, verB)
	if ret == 0 && relA != "" && relB != "" {
		ret = compareSegments(relA, relB)
	}
	return ret
}

// splitEVR splits "epoch:version-release". Release is empty when absent.
func splitEVR(evr string) (epoch, version, release string) {
	i := 0
	for i < len(evr) && isDigit(evr[i]) {
		i++
	}
	rest := evr
	epoch = "0"
	if i < len(evr) && evr[i] == ':' {
		if i > 0 {
			epoch = evr[:i]
		}
		rest = evr[i+1:]
	}
	if dash := strings.LastIndexByte(rest, '-'); dash >= 0 {
		return epoch, rest[:dash], rest[dash+1:]
	}
	return epoch, rest, ""
}

func compareSegments(a, b string) int {
	if a == b {
		return 0
	}

	// one/two walk the strings, prev1/prev2 mark the end of the last segment
	one, two := 0, 0
	prev1, prev2 := 0, 0
	for one < len(a) && two < len(b) {
		for one < len(a) && !isAlnum(a[one]) {
			one++
		}
		for two < len(b) && !isAlnum(b[two]) {
			two++
		}
		if one >= len(a) || two >= len(b) {
			break
		}

		if sepA, sepB := one-prev1, two-prev2; sepA != sepB {
			if sepA < sepB {
				return -1
			}
			return 1
		}

		end1, end2 := one, two
		numeric := isDigit(a[one])
		if numeric {
			for end1 < len(a) && isDigit(a[end1]) {
				end1++
			}
			for end2 < len(b) && isDigit(b[end2]) {
				end2++
			}
		} else {
			for end1 < len(a) && isAlpha(a[end1]) {
				end1++
			}
			for end2 < len(b) && isAlpha(b[end2]) {
				end2++
			}
		}

		// segments of different kinds: numeric is newer
		if end2 == two {
			if numeric {
				return 1
			}
			return -1
		}

		segA, segB := a[one:end1], b[two:end2]
		if numeric {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if c := strings.Compare(segA, segB); c != 0 {
			return c
		}

		one, two = end1, end2
		prev1, prev2 = end1, end2
	}

	if one >= len(a) && two >= len(b) {
		return 0
	}

	// the side with a trailing alphabetic run is older, otherwise the
	// longer version wins
	if (one >= len(a) && !isAlpha(b[two])) || (one < len(a) && isAlpha(a[one])) {
		return -1
	}
	return 1
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
