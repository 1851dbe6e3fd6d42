// Package models holds the data types shared across the citation
// pipeline: spans, resolutions, parallel citations, and the Citation
// tagged union.
package models

// Span locates a citation in both the cleaned and the original text.
// CleanStart <= CleanEnd and OriginalStart <= OriginalEnd always hold;
// both ranges denote the same logical substring.
type Span struct {
	CleanStart    int `json:"cleanStart"`
	CleanEnd      int `json:"cleanEnd"`
	OriginalStart int `json:"originalStart"`
	OriginalEnd   int `json:"originalEnd"`
}

// CitationType discriminates the Citation tagged union.
type CitationType string

const (
	TypeCase             CitationType = "case"
	TypeStatute          CitationType = "statute"
	TypeJournal          CitationType = "journal"
	TypeNeutral          CitationType = "neutral"
	TypePublicLaw        CitationType = "publicLaw"
	TypeFederalRegister  CitationType = "federalRegister"
	TypeStatutesAtLarge  CitationType = "statutesAtLarge"
	TypeID               CitationType = "id"
	TypeSupra            CitationType = "supra"
	TypeShortFormCase    CitationType = "shortFormCase"
)

// Resolution records where a short-form citation resolved to.
type Resolution struct {
	ResolvedTo int `json:"resolvedTo"`
}

// Citation is a tagged union over every recognized citation shape. All
// variants share Type/Text/Span/MatchedText/Confidence/ProcessTimeMs/
// PatternsChecked; the remaining fields are populated according to
// Type and left zero-valued otherwise. Go has no sum types, so the
// union is represented as one flat struct discriminated by Type.
type Citation struct {
	Type            CitationType `json:"type"`
	Text            string       `json:"text"`
	Span            Span         `json:"span"`
	MatchedText     string       `json:"matchedText"`
	Confidence      float64      `json:"confidence"`
	ProcessTimeMs   float64      `json:"processTimeMs"`
	PatternsChecked int          `json:"patternsChecked"`

	// case
	Volume               string  `json:"volume,omitempty"`
	Reporter             string  `json:"reporter,omitempty"`
	Page                 string  `json:"page,omitempty"`
	Year                 *int    `json:"year,omitempty"`
	Court                *string `json:"court,omitempty"`
	Plaintiff            *string `json:"plaintiff,omitempty"`
	Defendant            *string `json:"defendant,omitempty"`
	PlaintiffNormalized  *string `json:"plaintiffNormalized,omitempty"`
	DefendantNormalized  *string `json:"defendantNormalized,omitempty"`
	ProceduralPrefix     *string `json:"proceduralPrefix,omitempty"`
	Pincite              *string `json:"pincite,omitempty"`
	Parenthetical        *string `json:"parenthetical,omitempty"`
	GroupID              string  `json:"groupId,omitempty"`
	ParallelCitations    []ParallelCitation `json:"parallelCitations,omitempty"`

	// statute
	Title   string `json:"title,omitempty"`
	Code    string `json:"code,omitempty"`
	Section string `json:"section,omitempty"`

	// journal (reuses Volume/Page/Year above)
	JournalName string `json:"journal,omitempty"`

	// neutral
	Database string `json:"database,omitempty"`
	Sequence string `json:"sequence,omitempty"`

	// publicLaw
	Number string `json:"number,omitempty"`

	// short-form
	AntecedentGuess string      `json:"antecedentGuess,omitempty"`
	Resolution      *Resolution `json:"resolution,omitempty"`
}

// ParallelCitation is secondary-reporter information preserved on a
// parallel group's primary citation, in source order.
type ParallelCitation struct {
	Volume   string `json:"volume"`
	Reporter string `json:"reporter"`
	Page     string `json:"page"`
	Text     string `json:"text"`
	Span     Span   `json:"span"`
}

// ResolvedCitation is a Citation that has been through the Resolver.
// It carries no additional fields beyond Citation.Resolution; the
// type alias documents intent at resolve-aware call sites.
type ResolvedCitation = Citation

// IsShortForm reports whether c is one of the short-form variants.
func (c *Citation) IsShortForm() bool {
	switch c.Type {
	case TypeID, TypeSupra, TypeShortFormCase:
		return true
	default:
		return false
	}
}

// IsFull reports whether c is a full (non-short-form) citation type
// eligible to serve as a resolution antecedent.
func (c *Citation) IsFull() bool {
	return !c.IsShortForm()
}
