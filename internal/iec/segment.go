package iec

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// lines shorter than this are fragments of a neighbour
const minLineLen = 4

var separatorLine = regexp.MustCompile(`^_+$`)

// Segment splits raw into trimmed, non-empty lines and folds short fragments
// into their neighbours. Running it again on its own output changes nothing.
func Segment(raw string) []string {
	var lines []string
	for _, s := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		s = strings.TrimSpace(s)
		if s == "" || separatorLine.MatchString(s) {
			continue
		}
		lines = append(lines, s)
	}
	return coalesce(lines)
}

func coalesce(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	lastLong := -1
	for i, s := range lines {
		if !isFragment(s) {
			lastLong = i
		}
	}
	if lastLong < 0 {
		return []string{joinText(lines...)}
	}

	out := make([]string, 0, len(lines))
	var pending []string
	for i, s := range lines {
		switch {
		case !isFragment(s):
			out = append(out, joinText(append(pending, s)...))
			pending = nil
		case len(out) == 0:
			// leading fragments go in front of the first real line
			pending = append(pending, s)
		case i > lastLong:
			out[len(out)-1] = joinText(out[len(out)-1], s)
		case len(pending) > 0 || hasDigit(s):
			pending = append(pending, s)
		default:
			out[len(out)-1] = joinText(out[len(out)-1], s)
		}
	}
	return out
}

func isFragment(s string) bool {
	return utf8.RuneCountInString(s) < minLineLen
}

func joinText(parts ...string) string {
	return strings.Join(parts, " ")
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
