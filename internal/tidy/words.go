package tidy

import (
	"strings"

	"github.com/blevesearch/segment"
)

// WordCount counts letter and number words in s.
func WordCount(s string) int {
	seg := segment.NewWordSegmenter(strings.NewReader(s))
	count := 0
	for seg.Segment() {
		switch seg.Type() {
		case segment.Letter, segment.Number, segment.Ideo, segment.Kana:
			count++
		}
	}
	return count
}
