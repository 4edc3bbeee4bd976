package provider

import (
	"strconv"
	"strings"
)

// ParseTOI converts a "MM:SS" time-on-ice string to whole seconds. Minutes
// may exceed 59. Returns ok=false for anything else, including "".
func ParseTOI(s string) (int, bool) {
	mm, ss, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 {
		return 0, false
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec < 0 || sec > 59 {
		return 0, false
	}
	return m*60 + sec, true
}

// ParseFraction splits a "saves/shots" string like "23/25".
func ParseFraction(s string) (num, den int, ok bool) {
	a, b, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return 0, 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, false
	}
	return n, d, true
}
