package iec

import (
	"sort"
	"testing"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleInputs = []string{
	"Adults aged 18-65 years able to give informed consent",
	"1. Aged 18 or over\n2. Willing to consent\n3. No prior surgery",
	"Key exclusion criteria:\nAge under 18\nPregnant\nPrior allergy",
	"1. Adults aged 18 or over\n2. Diagnosed with one of:\na) type 1 diabetes\nb) type 2 diabetes\n3. Able to give consent",
	"Patients must have\nthe following:\n1. Diabetes\n2. Hypertension",
	"Group A:\n1. Aged 18 or over\na) living in the UK\nGroup B:\n(i) Aged under 18\n(ii) Parent consent given",
	"1. Aged 18 or over\nwith a diagnosis of asthma\n2. Able to consent\nNote: see protocol for details",
	"Inclusion:\n1. Aged 18 or over\n2. Able to consent",
	"a\nnd\nAdults aged 18 or over\n2.\nAble to consent",
	"~ Adults aged 18 or over\n~ Able to consent\n~ Living in Scotland\n~ Registered with a GP\n~ Own a smartphone",
	"- Adults aged 18 or over\n- Able to consent\n  1.1 Written consent\n  1.2 Verbal consent\n- Living in Wales",
	"1. Äußerst krank\n2. Ölallergie\n3. Überempfindlichkeit",
	"≥18 years\nAble to consent\n≤65 years",
	"Group A\n1. Aged 18 or over\na) living in the UK\nGroup B\n(i) Aged under 18\n(ii) Parent consent given",
	"Patients with:\nthe following conditions\n1. Diabetes\n2. Hypertension",
	"1. First\n1.1 Sub one\n1.2 Sub two\n1.2.1 Deep\n2. Second\n2.1 Sub three",
	"",
	"____",
}

func parse(kind Kind, raw string) Result {
	return Parse(NewTypeParams("ISRCTN12345678", kind), raw)
}

func TestParse_SingleBlock(t *testing.T) {
	in := "Adults aged 18-65 years able to give informed consent"
	res := parse(Inclusion, in)

	assert.Equal(t, StatusTagged, res.Status)
	require.Len(t, res.Criteria, 1)
	c := res.Criteria[0]
	assert.Equal(t, 0, c.IndentLevel)
	assert.Equal(t, "none", c.TagType)
	assert.Equal(t, "i.0", c.SequenceString)
	assert.Equal(t, in, c.Criterion)
	assert.Equal(t, 1, c.IeTypeID)
	assert.Equal(t, "ISRCTN12345678", c.SdSid)
}

func TestParse_NumberedList(t *testing.T) {
	res := parse(Inclusion, "1. Aged 18 or over\n2. Willing to consent\n3. No prior surgery")

	require.Len(t, res.Criteria, 3)
	assert.Equal(t, []string{"i.01", "i.02", "i.03"}, keys(res))
	for i, c := range res.Criteria {
		assert.Equal(t, 2, c.IndentLevel)
		assert.Equal(t, "numdotspc", c.TagType)
		assert.Equal(t, i+1, c.IndentSeqNum)
		assert.Equal(t, 3, c.IeTypeID)
	}
	assert.Equal(t, "2.", res.Criteria[1].Tag)
	assert.Equal(t, "Willing to consent", res.Criteria[1].Criterion)
}

func TestParse_NoMarkerFallback(t *testing.T) {
	res := parse(Exclusion, "Key exclusion criteria:\nAge under 18\nPregnant\nPrior allergy")

	require.Len(t, res.Criteria, 4)
	hdr := res.Criteria[0]
	assert.Equal(t, 1, hdr.IndentLevel)
	assert.Equal(t, 12, hdr.IeTypeID)
	assert.Equal(t, "e.H01", hdr.SequenceString)
	assert.Equal(t, "Key exclusion criteria:", hdr.Criterion)

	for i, c := range res.Criteria[1:] {
		assert.Equal(t, 2, c.IndentLevel)
		assert.Equal(t, 13, c.IeTypeID)
		assert.Equal(t, "cr-assumed", c.TagType)
		assert.Equal(t, i+1, c.IndentSeqNum)
	}
	assert.Equal(t, []string{"e.H01", "e.H01.01", "e.H01.02", "e.H01.03"}, keys(res))
}

func TestParse_FragmentsNeverStandAlone(t *testing.T) {
	res := parse(Inclusion, "Adults aged 18 or over\na\nnd\nable to consent\nNo prior surgery")
	for _, c := range res.Criteria {
		assert.GreaterOrEqual(t, utf8.RuneCountInString(c.Tag+c.Criterion), minLineLen, c.Criterion)
	}
	assert.Contains(t, res.Criteria[0].Criterion, "a nd")
}

func TestParse_ColonContinuationBecomesHeader(t *testing.T) {
	res := parse(Inclusion, "Patients must have\nthe following:\n1. Diabetes\n2. Hypertension")

	require.Len(t, res.Criteria, 3)
	hdr := res.Criteria[0]
	assert.Equal(t, "Patients must have the following:", hdr.Criterion)
	assert.Equal(t, 2, hdr.IeTypeID)
	assert.Equal(t, 1, hdr.SeqNum)
	assert.Equal(t, []string{"i.H01", "i.H01.01", "i.H01.02"}, keys(res))
}

func TestParse_NestedLists(t *testing.T) {
	res := parse(Inclusion, "1. Adults aged 18 or over\n2. Diagnosed with one of:\na) type 1 diabetes\nb) type 2 diabetes\n3. Able to give consent")

	require.Len(t, res.Criteria, 5)
	assert.Equal(t, []string{"i.01", "i.02", "i.02.01", "i.02.02", "i.03"}, keys(res))
	assert.Equal(t, []int{2, 2, 3, 3, 2}, levels(res))
	assert.Equal(t, []int{1, 2, 1, 2, 3}, positions(res))
	assert.Equal(t, "alrpar", res.Criteria[2].TagType)
}

func TestParse_SubLevelsAreLocalToEachGroup(t *testing.T) {
	res := parse(Inclusion, "Group A:\n1. Aged 18 or over\na) living in the UK\nGroup B:\n(i) Aged under 18\n(ii) Parent consent given")

	require.Len(t, res.Criteria, 6)
	assert.Equal(t, []int{1, 2, 3, 1, 2, 2}, levels(res))
	assert.Equal(t, []string{"i.H01", "i.H01.01", "i.H01.01.01", "i.H02", "i.H02.01", "i.H02.02"}, keys(res))
	assert.Equal(t, "rominpar", res.Criteria[4].TagType)
}

func TestParse_HeadingWithoutColonStartsNewGroup(t *testing.T) {
	res := parse(Inclusion, "Group A\n1. Aged 18 or over\na) living in the UK\nGroup B\n(i) Aged under 18\n(ii) Parent consent given")

	require.Len(t, res.Criteria, 6)
	assert.Equal(t, []int{1, 2, 3, 1, 2, 2}, levels(res))
	assert.Equal(t, []string{"i.H01", "i.H01.01", "i.H01.01.01", "i.H02", "i.H02.01", "i.H02.02"}, keys(res))
	assert.Equal(t, "Group B", res.Criteria[3].Criterion)
}

func TestParse_ContinuationKeepsSubLevel(t *testing.T) {
	res := parse(Inclusion, "1. Adults with one of\na) type 1 diabetes\nwith insulin use\nb) type 2 diabetes\n2. Able to consent")

	require.Len(t, res.Criteria, 4)
	assert.Equal(t, "type 1 diabetes with insulin use", res.Criteria[1].Criterion)
	assert.Equal(t, []int{2, 3, 3, 2}, levels(res))
	assert.Equal(t, []string{"i.01", "i.01.01", "i.01.02", "i.02"}, keys(res))
}

func TestParse_HeadingEndingInColonKeepsNextLine(t *testing.T) {
	// Only a line that itself ends in ":" is folded into the line above.
	res := parse(Inclusion, "Patients with:\nthe following conditions\n1. Diabetes\n2. Hypertension")

	require.Len(t, res.Criteria, 4)
	assert.Equal(t, "Patients with:", res.Criteria[0].Criterion)
	assert.Equal(t, "the following conditions", res.Criteria[1].Criterion)
	assert.Equal(t, []string{"i.H01", "i.H02", "i.H02.01", "i.H02.02"}, keys(res))
}

func TestParse_DottedHierarchy(t *testing.T) {
	res := parse(Inclusion, "1. First\n1.1 Sub one\n1.2 Sub two\n1.2.1 Deep\n2. Second\n2.1 Sub three")

	assert.Equal(t, []int{2, 3, 3, 4, 2, 3}, levels(res))
	assert.Equal(t, []string{"i.01", "i.01.01", "i.01.02", "i.01.02.01", "i.02", "i.02.01"}, keys(res))
}

func TestParse_LowercaseContinuationMerged(t *testing.T) {
	res := parse(Inclusion, "1. Aged 18 or over\nwith a diagnosis of asthma\n2. Able to consent\nNote: see protocol for details")

	require.Len(t, res.Criteria, 3)
	assert.Equal(t, "Aged 18 or over with a diagnosis of asthma", res.Criteria[0].Criterion)
	assert.Equal(t, 1, res.Criteria[0].SeqNum)
	assert.Equal(t, 3, res.Criteria[1].SeqNum)

	note := res.Criteria[2]
	assert.Equal(t, 4, note.IeTypeID)
	assert.Equal(t, 1, note.IndentLevel)
	assert.Equal(t, "i.S01", note.SequenceString)
}

func TestParse_TrailingSupplement(t *testing.T) {
	t.Run("lower case is merged", func(t *testing.T) {
		res := parse(Inclusion, "1. Aged 18 or over\n2. Able to consent\nand to attend all visits")
		require.Len(t, res.Criteria, 2)
		assert.Equal(t, "Able to consent and to attend all visits", res.Criteria[1].Criterion)
	})
	t.Run("upper case follows the list", func(t *testing.T) {
		res := parse(Inclusion, "1. Aged 18 or over\n2. Able to consent\nAll participants must live locally")
		require.Len(t, res.Criteria, 3)
		last := res.Criteria[2]
		assert.Equal(t, 2, last.IndentLevel)
		assert.Equal(t, 3, last.IeTypeID)
		assert.Equal(t, "i.03", last.SequenceString)
	})
}

func TestParse_RedundantHeadingDropped(t *testing.T) {
	res := parse(Inclusion, "Inclusion:\n1. Aged 18 or over\n2. Able to consent")

	require.Len(t, res.Criteria, 2)
	assert.Equal(t, []string{"i.01", "i.02"}, keys(res))
	assert.Equal(t, 2, res.Criteria[0].SeqNum)
}

func TestParse_RepeatedLeadingSymbol(t *testing.T) {
	res := parse(Inclusion, "~ Adults aged 18 or over\n~ Able to consent\n~ Living in Scotland\n~ Registered with a GP\n~ Own a smartphone")

	require.Len(t, res.Criteria, 5)
	for _, c := range res.Criteria {
		assert.Equal(t, "cr-assumed", c.TagType)
		assert.Equal(t, "~", c.Tag)
		assert.Equal(t, 2, c.IndentLevel)
	}
	assert.Equal(t, "Adults aged 18 or over", res.Criteria[0].Criterion)
}

func TestParse_TwoLines(t *testing.T) {
	t.Run("criteria heading and one criterion", func(t *testing.T) {
		res := parse(Inclusion, "Inclusion criteria:\nAdults aged 18 or over")
		require.Len(t, res.Criteria, 2)
		assert.Equal(t, []int{1, 2}, levels(res))
		assert.Equal(t, []string{"i.H01", "i.H01.01"}, keys(res))
	})
	t.Run("two coordinate criteria", func(t *testing.T) {
		res := parse(Inclusion, "Adults aged 18 or over\nAble to give consent")
		require.Len(t, res.Criteria, 2)
		assert.Equal(t, []int{2, 2}, levels(res))
		assert.Equal(t, []string{"i.01", "i.02"}, keys(res))
	})
	t.Run("split sentence becomes one block", func(t *testing.T) {
		res := parse(Inclusion, "Adults aged 18 or over who are\nable to give consent.")
		require.Len(t, res.Criteria, 1)
		assert.Equal(t, 0, res.Criteria[0].IndentLevel)
		assert.Equal(t, "Adults aged 18 or over who are able to give consent.", res.Criteria[0].Criterion)
	})
}

func TestParse_NoData(t *testing.T) {
	for _, in := range []string{"", "  \n ", "_____", "Exclusion:"} {
		res := parse(Exclusion, in)
		assert.Equal(t, StatusNoData, res.Status, in)
		assert.Empty(t, res.Criteria, in)
	}
}

func TestParse_Properties(t *testing.T) {
	for _, in := range sampleInputs {
		for _, kind := range []Kind{Inclusion, Exclusion} {
			res := parse(kind, in)

			orders := lo.Map(res.Criteria, func(c Criterion, _ int) int { return c.SeqNum })
			assert.True(t, sort.IntsAreSorted(orders), "order %q", in)
			assert.Len(t, lo.Uniq(orders), len(orders), "seq_num %q", in)

			ks := keys(res)
			assert.Len(t, lo.Uniq(ks), len(ks), "keys %q: %v", in, ks)

			for _, c := range res.Criteria {
				assert.GreaterOrEqual(t, c.IndentLevel, 0)
				assert.GreaterOrEqual(t, c.IndentSeqNum, 1)
				assert.NotEmpty(t, c.Criterion)
			}
		}
	}
}

func keys(res Result) []string {
	return lo.Map(res.Criteria, func(c Criterion, _ int) string { return c.SequenceString })
}

func levels(res Result) []int {
	return lo.Map(res.Criteria, func(c Criterion, _ int) int { return c.IndentLevel })
}

func positions(res Result) []int {
	return lo.Map(res.Criteria, func(c Criterion, _ int) int { return c.IndentSeqNum })
}
