package registry

import "encoding/xml"

// ---------------------------------------------------------------------------
// Top-level wrappers
// ---------------------------------------------------------------------------

// <allTrials totalCount="…"> <fullTrial> …
type AllTrials struct {
	XMLName    xml.Name    `xml:"allTrials"`
	TotalCount int         `xml:"totalCount,attr"`
	FullTrials []FullTrial `xml:"fullTrial"`
}

type FullTrial struct {
	Trial Trial `xml:"trial"`
}

// ---------------------------------------------------------------------------
// <trial> block. Only the parts the importer reads are modelled.
// ---------------------------------------------------------------------------

type Trial struct {
	LastUpdated      string            `xml:"lastUpdated,attr"`
	ISRCTN           ISRCTN            `xml:"isrctn"`
	Description      Description       `xml:"trialDescription"`
	ExternalRefs     ExternalRefs      `xml:"externalRefs"`
	Participants     Participants      `xml:"participants"`
	SecondaryNumbers []SecondaryNumber `xml:"trialIdentifiers>secondaryNumber"`
}

type ISRCTN struct {
	DateAssigned string `xml:"dateAssigned,attr"`
	Value        string `xml:",chardata"` // "ISRCTN12345678"
}

type Description struct {
	Title               string `xml:"title"`
	ScientificTitle     string `xml:"scientificTitle"`
	Acronym             string `xml:"acronym"`
	StudyHypothesis     string `xml:"studyHypothesis"`
	PlainEnglishSummary string `xml:"plainEnglishSummary"`
}

type ExternalRefs struct {
	DOI                  string `xml:"doi"`
	EudraCTNumber        string `xml:"eudraCTNumber"`
	IRASNumber           string `xml:"irasNumber"`
	CtGovNumber          string `xml:"ctGovNumber"`
	ProtocolSerialNumber string `xml:"protocolSerialNumber"`
}

// Inclusion and Exclusion are the free-text criteria fields.
type Participants struct {
	AgeRange        string `xml:"ageRange"`
	Gender          string `xml:"gender"`
	TargetEnrolment string `xml:"targetEnrolment"`
	Inclusion       string `xml:"inclusion"`
	Exclusion       string `xml:"exclusion"`
}

type SecondaryNumber struct {
	Type  string `xml:"numberType,attr"`
	Value string `xml:",chardata"`
}
