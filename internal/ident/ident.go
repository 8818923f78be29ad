// Package ident tags the free-text secondary identifiers a registry record
// carries with the type of identifier they are.
package ident

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Type ids used in study_identifiers.identifier_type_id.
const (
	TypeTrialRegistry = 11
	TypeFunder        = 13
	TypeSponsor       = 14
	TypeEthics        = 41
	TypeNIHR          = 42
)

// Identifier is one tagged secondary id.
type Identifier struct {
	Value  string `json:"identifier_value"`
	TypeID int    `json:"identifier_type_id"`
	Source string `json:"identifier_source"`
}

type rule struct {
	source string
	typeID int
	re     *regexp.Regexp
}

// rules are tried in order; the first whose pattern matches tags the token
// and supplies the normalised value in group 1.
var rules = []rule{
	{"IRAS", TypeEthics, regexp.MustCompile(`(?i)\bIRAS(?:\s*(?:ID|number|no\.?))?\s*[:#]?\s*(\d{5,7})\b`)},
	{"CPMS", TypeFunder, regexp.MustCompile(`(?i)\bCPMS(?:\s*(?:ID|number|no\.?))?\s*[:#]?\s*(\d{4,6})\b`)},
	{"NIHR", TypeNIHR, regexp.MustCompile(`(?i)\b(NIHR\s*\d{6}|NIHR\s*\d{2}/\d{2,3}/\d{2,3}|(?:HTA|PGfAR|RfPB|PHR|HS&DR|EME)\s*\d{2}/\d{2,3}/\d{2,3})\b`)},
	{"EudraCT", TypeTrialRegistry, regexp.MustCompile(`\b(\d{4}-\d{6}-\d{2})\b`)},
	{"ClinicalTrials.gov", TypeTrialRegistry, regexp.MustCompile(`(?i)\b(NCT\d{8})\b`)},
}

var separators = regexp.MustCompile(`[,;\n]+`)

// Classify splits a secondary numbers field and tags each token. Tokens that
// match no rule are kept as sponsor protocol numbers.
func Classify(raw string) []Identifier {
	var ids []Identifier
	for _, tok := range separators.Split(raw, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.EqualFold(tok, "nil known") || strings.EqualFold(tok, "nil") {
			continue
		}
		ids = append(ids, classifyToken(tok))
	}
	return lo.UniqBy(ids, func(id Identifier) string { return strings.ToUpper(id.Value) })
}

func classifyToken(tok string) Identifier {
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(tok); m != nil {
			value := strings.Join(strings.Fields(m[1]), " ")
			if r.source == "ClinicalTrials.gov" || r.source == "NIHR" {
				value = strings.ToUpper(value)
			}
			return Identifier{Value: value, TypeID: r.typeID, Source: r.source}
		}
	}
	return Identifier{Value: tok, TypeID: TypeSponsor, Source: "sponsor"}
}
