package iec

import (
	"regexp"
	"strconv"
	"strings"
)

var inlineNumber = regexp.MustCompile(`(?:^|\s)(\d{1,2})[.)]\s+`)

// ParseNumbered is the older extraction used for single paragraphs that carry
// their numbering inline: "1. Adults 2. Able to consent 3. ...". Only a clean
// run 1, 2, 3... counts; anything else comes back as one block.
func ParseNumbered(p TypeParams, raw string) Result {
	text := joinText(Segment(raw)...)
	if text == "" {
		return Result{Status: StatusNoData}
	}

	var cuts [][]int
	want := 1
	for _, loc := range inlineNumber.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err == nil && n == want {
			cuts = append(cuts, loc)
			want++
		}
	}

	if len(cuts) < 2 {
		block := line{order: 1, role: roleBlock, family: familyNone, text: text}
		return Result{Status: StatusNumbered, Criteria: sequence([]line{block}, p)}
	}

	var lines []line
	if lead := strings.TrimSpace(text[:cuts[0][0]]); lead != "" {
		lines = append(lines, line{role: roleHeader, family: familyNone, level: 1, text: lead})
	}
	for i, loc := range cuts {
		end := len(text)
		if i+1 < len(cuts) {
			end = cuts[i+1][0]
		}
		tag := strings.TrimSpace(text[loc[2]:loc[1]])
		fam := "numdot"
		if strings.HasSuffix(tag, ")") {
			fam = "numrpar"
		}
		lines = append(lines, line{
			role:   roleCriterion,
			family: fam,
			tag:    tag,
			level:  2,
			text:   strings.TrimSpace(text[loc[1]:end]),
		})
	}
	for i := range lines {
		lines[i].order = i + 1
	}
	return Result{Status: StatusNumbered, Criteria: sequence(lines, p)}
}
