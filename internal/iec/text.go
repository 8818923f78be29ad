package iec

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, r != utf8.RuneError
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, r != utf8.RuneError
}

// leadingRunes returns up to n runes from the start of s.
func leadingRunes(s string, n int) []rune {
	out := make([]rune, 0, n)
	for _, r := range s {
		if len(out) == n {
			break
		}
		out = append(out, r)
	}
	return out
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func startsUpper(s string) bool {
	r, ok := firstRune(s)
	return ok && unicode.IsUpper(r)
}

func startsLower(s string) bool {
	r, ok := firstRune(s)
	return ok && unicode.IsLower(r)
}

func startsLowerOrDigit(s string) bool {
	r, ok := firstRune(s)
	return ok && (unicode.IsLower(r) || unicode.IsDigit(r))
}

func endsTerminal(s string) bool {
	r, ok := lastRune(s)
	return ok && strings.ContainsRune(".;!?", r)
}

func endsColon(s string) bool {
	return strings.HasSuffix(s, ":")
}

// isShouted reports whether s has letters and none of them are lower case.
func isShouted(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 1
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
