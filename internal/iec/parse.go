package iec

// Parse splits a cleaned criteria field into rows. It never fails: input it
// cannot structure comes back as headers or as a single block.
func Parse(p TypeParams, raw string) Result {
	texts := Segment(raw)
	if len(texts) == 0 {
		return Result{Status: StatusNoData}
	}

	lines := tagLines(texts)
	applyLineBreakFallback(lines)
	lines = repair(lines)
	lines = resolveSmallList(lines)
	if len(lines) == 0 {
		return Result{Status: StatusNoData}
	}
	return Result{Status: StatusTagged, Criteria: sequence(lines, p)}
}
