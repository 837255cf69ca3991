// Package compact shortens interface names to a bounded length while
// keeping the code taken from the interface description as last segment.
package compact

import (
	"strings"
	"unicode/utf8"
)

// Used as name if nothing is left of the original name.
const fallbackPrefix = "JMP"

// Compact builds a name from the "-" separated segments of base, ending
// in "-" + code, that usually is not longer than maxLen characters.
//
// Segments are never dropped and never reordered, only shortened.
// The first two segments are kept in full as long as possible; later
// segments are reduced to their first character if they don't fit.
// If even that doesn't fit, the second segment is cut, but never below
// three characters. Hence the result may still be longer than maxLen.
func Compact(base, code string, maxLen int) string {
	base = strings.TrimSuffix(base, "-"+code)
	if base == "" {
		return fallbackPrefix + "-" + code
	}
	parts := strings.Split(base, "-")
	fits := func(l []string) bool { return Fits(join(l, code), maxLen) }

	result := []string{parts[0]}
	var rest []string
	if len(parts) > 1 {
		// Second segment is taken unconditionally.
		result = append(result, parts[1])
		rest = parts[2:]
	}
	for _, part := range rest {
		first := prefix(part, 1)
		if l := with(result, part); fits(l) {
			result = l
		} else if l := with(result, first); fits(l) {
			result = l
		} else if len(result) < 2 {
			result = with(result, first)
		} else {
			result = cutSecond(result, first, fits)
		}
	}
	name := join(result, code)
	if Fits(name, maxLen) || len(result) < 2 {
		return name
	}

	// Give second segment what is left from all other segments.
	suffix := code
	if len(result) > 2 {
		suffix = strings.Join(result[2:], "-") + "-" + code
	}
	allowed := maxLen - (length(result[0]) + 2 + length(suffix))
	result[1] = prefix(result[1], max(allowed, 3))
	name = join(result, code)
	if Fits(name, maxLen) || len(result) == 2 {
		return name
	}
	for i := 2; i < len(result); i++ {
		result[i] = prefix(result[i], 1)
	}
	return join(result, code)
}

// Fits reports whether name is at most maxLen characters long.
func Fits(name string, maxLen int) bool {
	return length(name) <= maxLen
}

// cutSecond tries to make room for first by shortening the second
// segment of result. Cut points are tried from longest to shortest,
// down to three characters. If no cut point fits, the second segment
// is cut to three characters and first is added nevertheless.
func cutSecond(result []string, first string, fits func([]string) bool) []string {
	second := result[1]
	build := func(cut int) []string {
		l := make([]string, 0, len(result)+1)
		l = append(l, result[0], prefix(second, cut))
		l = append(l, result[2:]...)
		return append(l, first)
	}
	for cut := length(second); cut > 2; cut-- {
		if l := build(cut); fits(l) {
			return l
		}
	}
	return build(3)
}

// with returns a copy of l with s appended.
func with(l []string, s string) []string {
	c := make([]string, len(l), len(l)+1)
	copy(c, l)
	return append(c, s)
}

func join(l []string, code string) string {
	return strings.Join(l, "-") + "-" + code
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
