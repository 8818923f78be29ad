package iec

import (
	"fmt"
	"strings"
)

// maxDepth bounds the per-level counters; deeper lines share the last slot.
const maxDepth = 8

const singleBlockMarker = "0"

// sequence numbers the final lines and builds their keys.
func sequence(ls []line, p TypeParams) []Criterion {
	var counters [maxDepth + 1]int
	topLetter := ""
	out := make([]Criterion, 0, len(ls))
	for _, l := range ls {
		depth := min(l.level, maxDepth)
		pos := 1
		var key string
		if depth == 0 {
			key = p.Prefix + "." + singleBlockMarker
		} else {
			counters[depth]++
			clear(counters[depth+1:])
			pos = counters[depth]
			if depth == 1 {
				topLetter = levelOneLetter(l)
			}
			key = sequenceKey(p.Prefix, counters[:depth+1], topLetter)
		}
		out = append(out, Criterion{
			SdSid:          p.StudyID,
			SeqNum:         l.order,
			IeTypeID:       p.code(l.role),
			TagType:        l.family,
			Tag:            l.tag,
			IndentLevel:    depth,
			IndentSeqNum:   pos,
			SequenceString: key,
			Criterion:      l.text,
		})
	}
	return out
}

// sequenceKey joins counters[1:] as "e.H02.01.03". The level 1 counter is
// left out while no header or supplement has been seen.
func sequenceKey(prefix string, counters []int, letter string) string {
	parts := make([]string, 0, len(counters))
	for depth := 1; depth < len(counters); depth++ {
		if depth == 1 {
			if counters[1] > 0 {
				parts = append(parts, fmt.Sprintf("%s%02d", letter, counters[1]))
			}
			continue
		}
		parts = append(parts, fmt.Sprintf("%02d", counters[depth]))
	}
	return prefix + "." + strings.Join(parts, ".")
}

// levelOneLetter marks a level 1 line in the key: H for a heading, S for a
// supplement. A line pulled up from a marker keeps its tag's first letter.
func levelOneLetter(l line) string {
	switch l.role {
	case roleHeader:
		return "H"
	case roleSupplement:
		return "S"
	}
	tag := strings.TrimLeft(l.tag, `\`)
	if r, ok := firstRune(tag); ok {
		return strings.ToUpper(string(r))
	}
	return "H"
}
