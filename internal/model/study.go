// Package model is the JSON intermediate form written by the download step
// and read by the load step.
package model

import (
	"github.com/paulgmiller/trialetl/internal/ident"
	"github.com/paulgmiller/trialetl/internal/iec"
)

// Study is one registry record after tidying.
type Study struct {
	SdSid            string             `json:"sd_sid"`
	DisplayTitle     string             `json:"display_title"`
	ScientificTitle  *string            `json:"scientific_title,omitempty"`
	Acronym          *string            `json:"acronym,omitempty"`
	BriefDescription *string            `json:"brief_description,omitempty"`
	LastEdited       string             `json:"last_edited,omitempty"`
	DateAssigned     string             `json:"date_assigned,omitempty"`
	AgeRange         *string            `json:"age_range,omitempty"`
	Gender           *string            `json:"gender,omitempty"`
	Enrolment        *string            `json:"enrolment,omitempty"`
	Identifiers      []ident.Identifier `json:"identifiers,omitempty"`
	Criteria         []iec.Criterion    `json:"criteria,omitempty"`
	IECFlag          int                `json:"iec_flag"`
	IECWords         int                `json:"iec_words"`
}
