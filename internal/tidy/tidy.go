// Package tidy cleans free-text registry fields before they are stored or
// handed to the criteria parser.
package tidy

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var placeholders = []string{
	"n/a", "na", "none", "nil", "null", "-", ".", "not applicable",
	"not provided at time of registration", "not specified", "to be confirmed", "tbc",
}

var (
	breakTag    = regexp.MustCompile(`(?i)<\s*(br|/p|/li)\s*/?\s*>`)
	listItemTag = regexp.MustCompile(`(?i)<\s*li\s*>`)
	anyTag      = regexp.MustCompile(`<[^<>]{1,200}>`)
	spaceRun    = regexp.MustCompile(`[ \t\x{00A0}]+`)
	blankLines  = regexp.MustCompile(`\n{2,}`)
)

var apostrophes = strings.NewReplacer(
	"‘", "'", "’", "'", "‛", "'", "′", "'", "`", "'", "''", "'",
	"“", `"`, "”", `"`,
)

// IsPlaceholder reports whether s says nothing, e.g. "N/A" or "Not applicable".
func IsPlaceholder(s string) bool {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), ".;: "))
	return s == "" || lo.Contains(placeholders, s)
}

// Text is the standard single-line clean up. It returns nil for missing,
// blank or placeholder values.
func Text(s *string) *string {
	if s == nil {
		return nil
	}
	out := strings.Join(strings.Fields(Normalize(StripTags(DecodeEntities(*s)))), " ")
	out = FixApostrophes(out)
	if IsPlaceholder(out) {
		return nil
	}
	return &out
}

// MultiLine cleans a field whose line breaks carry meaning, such as the
// criteria lists. Runs of spaces collapse but line breaks survive.
func MultiLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = FixApostrophes(Normalize(StripTags(DecodeEntities(s))))
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(ln, " "))
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n")
	s = strings.TrimSpace(s)
	if IsPlaceholder(s) {
		return ""
	}
	return s
}

// DecodeEntities turns "&amp;lt;" style double encoding into plain text.
func DecodeEntities(s string) string {
	for range 3 {
		next := html.UnescapeString(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// StripTags drops markup; list items and line breaks become new lines.
func StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	s = breakTag.ReplaceAllString(s, "\n")
	s = listItemTag.ReplaceAllString(s, "\n")
	return anyTag.ReplaceAllString(s, "")
}

// Normalize composes to NFC and removes control and formatting characters
// other than line breaks and tabs.
func Normalize(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.Predicate(invisible)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func invisible(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return unicode.IsControl(r) || unicode.In(r, unicode.Cf) || r == '�'
}

// FixApostrophes maps curly quotes and doubled apostrophes to plain ones.
func FixApostrophes(s string) string {
	return apostrophes.Replace(s)
}
