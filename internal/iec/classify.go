package iec

// marker is the outcome of a successful classification.
type marker struct {
	pat  *pattern
	tag  string
	text string
}

// classify finds the first marker pattern that fits s.
func classify(s string) (marker, bool) {
	t := patterns()
	for _, f := range familyOrder(s) {
		for _, p := range t.families[f] {
			if m, ok := apply(p, s); ok {
				return m, true
			}
		}
	}
	return marker{}, false
}

func apply(p *pattern, s string) (marker, bool) {
	tag, rest, ok := p.match(s)
	if !ok {
		return marker{}, false
	}
	return marker{pat: p, tag: tag, text: rest}, true
}
