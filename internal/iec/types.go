// Package iec turns a free-text inclusion or exclusion criteria field into an
// ordered, indented list of criterion rows.
//
// Parsing is a pure function of its input. The only shared state is the
// compiled marker pattern table, which is built once and never mutated.
package iec

// Kind is the criteria field being parsed.
type Kind string

const (
	Inclusion Kind = "inclusion"
	Exclusion Kind = "exclusion"
)

// KindOf reports which field an ie_type_id code belongs to.
func KindOf(ieTypeID int) Kind {
	if ieTypeID > 10 {
		return Exclusion
	}
	return Inclusion
}

// Status codes returned with a parse. Callers sum the inclusion and exclusion
// codes into a single per-study flag.
const (
	StatusNoData   = 0
	StatusTagged   = 2
	StatusNumbered = 5
)

// TypeParams is fixed for one call of Parse.
type TypeParams struct {
	StudyID string
	Kind    Kind
	Prefix  string // first part of every sequence key, "i" or "e"

	// ie_type_id codes
	Block      int
	Header     int
	Criterion  int
	Supplement int
}

// NewTypeParams returns the parameters used for kind.
func NewTypeParams(studyID string, kind Kind) TypeParams {
	if kind == Exclusion {
		return TypeParams{
			StudyID:    studyID,
			Kind:       Exclusion,
			Prefix:     "e",
			Block:      11,
			Header:     12,
			Criterion:  13,
			Supplement: 14,
		}
	}
	return TypeParams{
		StudyID:    studyID,
		Kind:       Inclusion,
		Prefix:     "i",
		Block:      1,
		Header:     2,
		Criterion:  3,
		Supplement: 4,
	}
}

// Criterion is one output row, keyed by (sd_sid, seq_num).
type Criterion struct {
	SdSid          string `json:"sd_sid"`
	SeqNum         int    `json:"seq_num"`
	IeTypeID       int    `json:"ie_type_id"`
	TagType        string `json:"tag_type"`
	Tag            string `json:"tag"`
	IndentLevel    int    `json:"indent_level"`
	IndentSeqNum   int    `json:"indent_seq_num"`
	SequenceString string `json:"sequence_string"`
	Criterion      string `json:"criterion"`
}

// Result is what Parse hands back to the loader.
type Result struct {
	Status   int         `json:"status"`
	Criteria []Criterion `json:"criteria"`
}

type role int

const (
	roleCriterion role = iota
	roleHeader
	roleSupplement
	roleBlock
)

// line is the working form of a row while the passes run.
type line struct {
	order  int // 1-based position before repair
	role   role
	tag    string
	family string
	level  int
	text   string
}

func (p TypeParams) code(r role) int {
	switch r {
	case roleBlock:
		return p.Block
	case roleHeader:
		return p.Header
	case roleSupplement:
		return p.Supplement
	default:
		return p.Criterion
	}
}
