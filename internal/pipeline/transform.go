package pipeline

import (
	"strings"

	"github.com/samber/lo"

	"github.com/paulgmiller/trialetl/internal/ident"
	"github.com/paulgmiller/trialetl/internal/iec"
	"github.com/paulgmiller/trialetl/internal/model"
	"github.com/paulgmiller/trialetl/internal/registry"
	"github.com/paulgmiller/trialetl/internal/tidy"
)

// Options tune the transform step.
type Options struct {
	// InlineNumbered retries single-block criteria with the inline
	// "1. ... 2. ..." splitter.
	InlineNumbered bool
}

// Transform maps a registry record onto the JSON intermediate form.
func Transform(ft registry.FullTrial, opts Options) model.Study {
	tr := ft.Trial
	id := strings.TrimSpace(tr.ISRCTN.Value)
	d := tr.Description

	st := model.Study{
		SdSid:            id,
		ScientificTitle:  tidy.Text(&d.ScientificTitle),
		Acronym:          tidy.Text(&d.Acronym),
		BriefDescription: tidy.Text(&d.PlainEnglishSummary),
		LastEdited:       datePart(tr.LastUpdated),
		DateAssigned:     datePart(tr.ISRCTN.DateAssigned),
		AgeRange:         tidy.Text(&tr.Participants.AgeRange),
		Gender:           tidy.Text(&tr.Participants.Gender),
		Enrolment:        tidy.Text(&tr.Participants.TargetEnrolment),
	}
	title, _ := lo.Coalesce(tidy.Text(&d.Title), st.ScientificTitle)
	st.DisplayTitle = lo.FromPtrOr(title, id)
	st.Identifiers = identifiers(tr)

	inc := criteria(id, iec.Inclusion, tr.Participants.Inclusion, opts)
	exc := criteria(id, iec.Exclusion, tr.Participants.Exclusion, opts)
	st.Criteria = append(inc.Criteria, offsetSeq(exc.Criteria, maxSeq(inc.Criteria))...)
	st.IECFlag = inc.Status + exc.Status
	st.IECWords = lo.SumBy(st.Criteria, func(c iec.Criterion) int { return tidy.WordCount(c.Criterion) })
	return st
}

func criteria(id string, kind iec.Kind, raw string, opts Options) iec.Result {
	text := tidy.MultiLine(raw)
	if text == "" {
		return iec.Result{Status: iec.StatusNoData}
	}
	p := iec.NewTypeParams(id, kind)
	res := iec.Parse(p, text)
	if opts.InlineNumbered && len(res.Criteria) == 1 && res.Criteria[0].IndentLevel == 0 {
		if n := iec.ParseNumbered(p, text); len(n.Criteria) > 1 {
			return n
		}
	}
	return res
}

// identifiers gathers the numbered references a record carries.
func identifiers(tr registry.Trial) []ident.Identifier {
	refs := tr.ExternalRefs
	var raw []string
	if v := tidy.Text(&refs.IRASNumber); v != nil {
		raw = append(raw, "IRAS "+*v)
	}
	for _, s := range []string{refs.EudraCTNumber, refs.CtGovNumber, refs.ProtocolSerialNumber} {
		if v := tidy.Text(&s); v != nil {
			raw = append(raw, *v)
		}
	}
	for _, sn := range tr.SecondaryNumbers {
		if v := tidy.Text(&sn.Value); v != nil {
			raw = append(raw, *v)
		}
	}
	return ident.Classify(strings.Join(raw, "\n"))
}

// seq_num is unique per study, so exclusion rows continue after the
// inclusion rows.
func offsetSeq(cs []iec.Criterion, by int) []iec.Criterion {
	out := make([]iec.Criterion, len(cs))
	for i, c := range cs {
		c.SeqNum += by
		out[i] = c
	}
	return out
}

func maxSeq(cs []iec.Criterion) int {
	if len(cs) == 0 {
		return 0
	}
	return lo.MaxBy(cs, func(a, b iec.Criterion) bool { return a.SeqNum > b.SeqNum }).SeqNum
}

func datePart(ts string) string {
	ts = strings.TrimSpace(ts)
	if len(ts) >= len(dateLayout) {
		return ts[:len(dateLayout)]
	}
	return ts
}
