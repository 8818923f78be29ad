package iec

import (
	"regexp"
	"slices"
	"strings"
)

// bare "Inclusion:" style headings repeat the field name and carry nothing
var redundantHeading = regexp.MustCompile(`(?i)^(inclusion|exclusion)s?\s*:?$`)

var supplementKeepers = []string{"Note", "Other", "For further", "For more", "More"}

// repair walks the lines backwards and folds lines that were split by
// mistake back into the line before them. A merged line keeps the order of
// the earlier line.
func repair(lines []line) []line {
	ls := slices.Clone(lines)
	last := len(ls) - 1
	for i := last; i >= 0; i-- {
		cur := ls[i]
		if cur.role != roleCriterion && redundantHeading.MatchString(cur.text) {
			ls = slices.Delete(ls, i, i+1)
			continue
		}
		if i == 0 {
			continue
		}
		prev := &ls[i-1]

		switch cur.role {
		case roleHeader:
			if i == last || strings.HasPrefix(cur.text, "Note") || !startsLowerOrDigit(cur.text) {
				continue
			}
			switch {
			case !endsColon(cur.text) && !endsColon(prev.text) && !endsTerminal(prev.text):
				prev.text = joinText(prev.text, cur.text)
				ls = slices.Delete(ls, i, i+1)
			case endsColon(cur.text):
				if endsColon(prev.text) {
					prev.text = strings.TrimSuffix(prev.text, ":") + "."
				}
				prev.text = joinText(prev.text, cur.text)
				prev.role = roleHeader
				ls = slices.Delete(ls, i, i+1)
			}

		case roleSupplement:
			if endsColon(cur.text) || strings.HasPrefix(cur.text, "*") || hasAnyPrefix(cur.text, supplementKeepers...) {
				continue
			}
			if startsLower(cur.text) {
				prev.text = joinText(prev.text, cur.text)
				ls = slices.Delete(ls, i, i+1)
				continue
			}
			ls[i].level = prev.level
			if prev.role == roleCriterion {
				ls[i].role = roleCriterion
			}
		}
	}
	return ls
}

// resolveSmallList handles what is left when repair leaves one or two lines.
func resolveSmallList(ls []line) []line {
	switch len(ls) {
	case 1:
		ls[0].role = roleBlock
		ls[0].level = 0
	case 2:
		a, b := &ls[0], &ls[1]
		if a.role == roleCriterion || b.role == roleCriterion {
			return ls
		}
		switch {
		case a.role == roleHeader && endsColon(a.text) && strings.Contains(strings.ToLower(a.text), "criteria"):
			a.level = 1
			b.role, b.level = roleCriterion, 2
		case consistentAll([]string{a.text, b.text}):
			for _, l := range []*line{a, b} {
				l.role, l.level, l.family = roleCriterion, 2, familyCRAssumed
			}
		case !endsTerminal(a.text) && startsLower(b.text):
			a.text = joinText(a.text, b.text)
			a.role, a.level = roleBlock, 0
			return ls[:1]
		}
	}
	return ls
}
