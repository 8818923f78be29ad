package iec

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
)

type family int

const (
	famDotted family = iota
	famNumeric
	famAlpha
	famOther
)

// pattern is one list-marker style. Group 1 of re is the marker; the
// criterion text starts where the group ends.
type pattern struct {
	name   string
	family family
	re     *regexp.Regexp
	reject func(rest string) bool
}

func (p *pattern) match(s string) (tag, rest string, ok bool) {
	loc := p.re.FindStringSubmatchIndex(s)
	if loc == nil || loc[2] < 0 {
		return "", "", false
	}
	rest = strings.TrimSpace(s[loc[3]:])
	if rest == "" {
		return "", "", false
	}
	if p.reject != nil && p.reject(rest) {
		return "", "", false
	}
	return strings.TrimSpace(s[loc[2]:loc[3]]), rest, true
}

// patternTable holds every family in match priority order. Order inside a
// family matters: the first hit wins.
type patternTable struct {
	families [4][]*pattern
}

var patterns = sync.OnceValue(buildPatternTable)

// startsWithDigit rejects markers that are really the start of a number range
// or a decimal, e.g. "18-65 years".
func startsWithDigit(rest string) bool {
	r, ok := firstRune(rest)
	return ok && isASCIIDigit(r)
}

const (
	romanLower = `(?:xii|xi|x|ix|viii|vii|vi|v|iv|iii|ii|i)`
	romanUpper = `(?:XII|XI|X|IX|VIII|VII|VI|V|IV|III|II|I)`
	bullets    = "•·‣⁃▪▫◦●○■□►▸➢➤✓✔❖"
	// text may follow the marker directly only if it starts a new word
	dottedTail = `(?:\s|[A-Z(\[])`
)

func buildPatternTable() *patternTable {
	t := &patternTable{}
	add := func(f family, name, expr string, reject func(string) bool) {
		t.families[f] = append(t.families[f], &pattern{
			name:   name,
			family: f,
			re:     regexp.MustCompile(expr),
			reject: reject,
		})
	}

	// "1.2.3" has to be tried before "1." can claim it.
	add(famDotted, "numdotspc", `^(\d{1,2}\.)\s`, nil)
	add(famDotted, "numdotnumspc", `^(\d{1,2}\.\d{1,2})\s`, nil)
	add(famDotted, "numdot4", `^(\d{1,2}\.\d{1,2}\.\d{1,2}\.\d{1,2}\.?)`+dottedTail, nil)
	add(famDotted, "numdot3", `^(\d{1,2}\.\d{1,2}\.\d{1,2}\.?)`+dottedTail, nil)
	add(famDotted, "numdot2", `^(\d{1,2}\.\d{1,2}\.)`+dottedTail, nil)
	add(famDotted, "numdotrbr", `^(\d{1,2}\.\))`, nil)
	add(famDotted, "numdotalpha", `^(\d{1,2}\.[a-z][.)]?)\s`, nil)
	add(famDotted, "numdot", `^(\d{1,2}\.)`, startsWithDigit)

	add(famNumeric, "numalpha", `^(\d{1,2}[a-z][.)]?)\s`, nil)
	add(famNumeric, "numrpar", `^(\d{1,2}\))`, nil)
	add(famNumeric, "numcolon", `^(\d{1,2}:)`, startsWithDigit)
	add(famNumeric, "numrbrack", `^(\d{1,2}\])`, nil)
	add(famNumeric, "numdash", `^(\d{1,2}\s?[-\x{2013}\x{2014}])`, startsWithDigit)
	add(famNumeric, "numslash", `^(\d{1,2}/)`, startsWithDigit)
	add(famNumeric, "numtab", `^(\d{1,2})\t`, nil)
	add(famNumeric, "num3hdr", `^([12]\d{2}|300)\s`, nil)
	add(famNumeric, "numspc", `^(\d{1,2})\s`, nil)
	add(famNumeric, "numcap", `^(\d{1,2})[A-Z]`, nil)

	add(famAlpha, "iecode", `^([EI]\d{1,2}[.:)]?)\s`, nil)
	add(famAlpha, "romcapdot", `^(`+romanUpper+`\.)\s`, nil)
	add(famAlpha, "romdot", `^(`+romanLower+`\.)\s`, nil)
	add(famAlpha, "romrpar", `^(`+romanLower+`\))`, nil)
	add(famAlpha, "aldot", `^([a-z]\.)(?:\s|[A-Z])`, nil)
	add(famAlpha, "alcapdot", `^([A-Z]\.)\s`, nil)
	add(famAlpha, "alinpar", `^(\([a-z]\))`, nil)
	add(famAlpha, "alcapinpar", `^(\([A-Z]\))`, nil)
	add(famAlpha, "alrpar", `^([a-z]\))`, nil)
	add(famAlpha, "alrbrack", `^([a-z]\])`, nil)
	add(famAlpha, "alcaprpar", `^([A-Z]\))`, nil)
	add(famAlpha, "obullet", `^(o[-)]?)\s`, nil)

	add(famOther, "rominpar", `^(\(`+romanLower+`\))`, nil)
	add(famOther, "numinpar", `^(\(\d{1,2}\))`, nil)
	add(famOther, "numinbrack", `^(\[\d{1,2}\])`, nil)
	add(famOther, "dblstar", `^(\*\*)`, nil)
	add(famOther, "star", `^(\*)`, nil)
	add(famOther, "bullet", `^([`+bullets+`])`, nil)
	add(famOther, "dash", `^(--?|\x{2013}|\x{2014})`, startsWithDigit)
	add(famOther, "semicolon", `^(;)`, nil)
	add(famOther, "qmark", `^(\?)`, nil)

	return t
}

// familyOrder picks the families worth trying from the first characters of s.
func familyOrder(s string) []family {
	r := leadingRunes(s, 3)
	if len(r) == 0 {
		return nil
	}
	switch {
	case isASCIIDigit(r[0]):
		if isDottedStart(r) {
			return []family{famDotted, famNumeric}
		}
		return []family{famNumeric}
	case unicode.IsLetter(r[0]):
		return []family{famAlpha}
	case r[0] == '(' || r[0] == '[':
		// "(i)" is roman before "(a)" is alphabetic
		return []family{famOther, famAlpha}
	default:
		return []family{famOther}
	}
}

func isDottedStart(r []rune) bool {
	if len(r) < 2 {
		return false
	}
	if r[1] == '.' {
		return true
	}
	return len(r) > 2 && isASCIIDigit(r[1]) && r[2] == '.'
}
