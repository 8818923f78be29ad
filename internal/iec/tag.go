package iec

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const (
	familyNone      = "none"
	familyHeader    = "header"
	familyCRAssumed = "cr-assumed"
)

// levelRegistry maps marker styles to depths in the order they were first seen.
// Index 0 and 1 are fixed.
type levelRegistry []string

func newLevelRegistry() levelRegistry {
	return levelRegistry{familyNone, familyHeader}
}

// resolve returns the depth of name, registering it one below the deepest
// known style if it is new. Reaching the first criterion tier forgets every
// style below it so sub-numbering stays local to each top-level item.
func (r *levelRegistry) resolve(name string) int {
	depth := lo.IndexOf([]string(*r), name)
	if depth < 0 {
		*r = append(*r, name)
		depth = len(*r) - 1
	}
	if depth == 2 {
		*r = (*r)[:3]
	}
	return depth
}

func (r *levelRegistry) reset() {
	*r = (*r)[:2]
}

// tagLines gives every line a marker, a role and a depth.
func tagLines(texts []string) []line {
	lines := make([]line, 0, len(texts))
	levels := newLevelRegistry()

	var prev *pattern
	prevName := ""
	prevLevel := 0
	for i, s := range texts {
		ln := line{order: i + 1, text: s, family: familyNone}

		var m marker
		ok := false
		// A dotted pattern like "2." would match "2.2." once re-applied,
		// so those always go back through the full classifier.
		if prev != nil && prev.family != famDotted {
			m, ok = apply(prev, s)
		}
		if !ok {
			m, ok = classify(s)
		}

		if ok {
			level := prevLevel
			if m.pat.name != prevName {
				level = levels.resolve(m.pat.name)
			}
			ln.role = roleCriterion
			ln.tag = m.tag
			ln.family = m.pat.name
			ln.level = level
			ln.text = m.text
			prev, prevName, prevLevel = m.pat, m.pat.name, level
		} else {
			ln.role = roleHeader
			if i == len(texts)-1 {
				ln.role = roleSupplement
			}
			ln.level = 1
			// Lower-case lines without a colon are continuations that repair
			// folds back into the item above, so they keep its sub-levels.
			if endsColon(s) || !startsLowerOrDigit(s) {
				levels.reset()
			}
			prev, prevName, prevLevel = nil, familyHeader, 1
		}
		lines = append(lines, ln)
	}
	return lines
}

// applyLineBreakFallback re-reads a list that carries (almost) no markers as
// one criterion per line. It reports whether it changed anything.
func applyLineBreakFallback(lines []line) bool {
	n := len(lines)
	unmarked := lo.CountBy(lines, func(l line) bool { return l.role != roleCriterion })
	mostlyBare := (n > 4 && unmarked >= n-1) || (n > 2 && n <= 4 && unmarked == n)
	if !mostlyBare {
		return false
	}

	texts := lo.Map(lines, func(l line, _ int) string { return l.text })
	lead, hasLead := repeatedLeader(texts)
	if !consistent(texts) && !hasLead {
		return false
	}

	for i := range lines {
		l := &lines[i]
		if l.role == roleCriterion {
			l.level = 2
			continue
		}
		l.family = familyCRAssumed
		if hasLead {
			if rest, found := strings.CutPrefix(l.text, string(lead)); found && strings.TrimSpace(rest) != "" {
				l.tag = string(lead)
				l.text = strings.TrimSpace(rest)
			}
		}
		if endsColon(l.text) || isShouted(l.text) {
			l.role = roleHeader
			l.level = 1
			continue
		}
		l.role = roleCriterion
		l.level = 2
	}
	return true
}

// consistent reports whether the non-heading lines share an ending or a case
// at the start.
func consistent(texts []string) bool {
	body := lo.Filter(texts, func(s string, _ int) bool { return !endsColon(s) })
	if len(body) == 0 {
		return false
	}
	return consistentAll(body)
}

func consistentAll(texts []string) bool {
	return lo.EveryBy(texts, endsTerminal) ||
		lo.EveryBy(texts, startsUpper) ||
		lo.EveryBy(texts, startsLower)
}

// repeatedLeader looks for a symbol that starts every line after the first.
// The second line is taken as the template.
func repeatedLeader(texts []string) (rune, bool) {
	if len(texts) < 2 {
		return 0, false
	}
	r, ok := firstRune(texts[1])
	if !ok || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return 0, false
	}
	every := lo.EveryBy(texts[1:], func(s string) bool {
		f, ok := firstRune(s)
		return ok && f == r
	})
	return r, every
}
