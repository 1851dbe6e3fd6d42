// Package lookup implements the Reporters/Journals/Courts data
// service: known-reporter and known-journal membership checks and
// court-name normalization. The tables are built by NewService and
// never mutated afterward, making them safe for concurrent reads
// with no synchronization.
package lookup

import "strings"

// Service answers isKnownReporter/normalizeReporter/isKnownJournal/
// normalizeCourt lookups against immutable in-memory tables.
type Service struct {
	reporters map[string]string
	journals  map[string]bool
	courts    map[string]string
}

// NewService builds the default, immutable lookup service.
func NewService() *Service {
	return &Service{
		reporters: buildReporterAbbreviations(),
		journals:  buildJournalNames(),
		courts:    buildCourtAbbreviations(),
	}
}

// IsKnownReporter reports whether reporter (any casing/spacing) is a
// recognized reporter abbreviation.
func (s *Service) IsKnownReporter(reporter string) bool {
	_, ok := s.reporters[normalizeKey(reporter)]
	return ok
}

// NormalizeReporter returns the canonical spelling of reporter, or
// reporter unchanged if unrecognized.
func (s *Service) NormalizeReporter(reporter string) string {
	if canonical, ok := s.reporters[normalizeKey(reporter)]; ok {
		return canonical
	}
	return reporter
}

// IsKnownJournal reports whether name is a recognized law journal.
func (s *Service) IsKnownJournal(name string) bool {
	return s.journals[normalizeKey(name)]
}

// NormalizeCourt returns the canonical court abbreviation for token,
// or nil if token is not a recognized court identifier.
func (s *Service) NormalizeCourt(token string) *string {
	if canonical, ok := s.courts[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return &canonical
	}
	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func buildReporterAbbreviations() map[string]string {
	return map[string]string{
		"u.s.":         "U.S.",
		"us":           "U.S.",
		"s. ct.":       "S. Ct.",
		"s.ct.":        "S. Ct.",
		"l. ed.":       "L. Ed.",
		"l. ed. 2d":    "L. Ed. 2d",
		"f.":           "F.",
		"f.2d":         "F.2d",
		"f.3d":         "F.3d",
		"f.4th":        "F.4th",
		"f. supp.":     "F. Supp.",
		"f. supp. 2d":  "F. Supp. 2d",
		"f. supp. 3d":  "F. Supp. 3d",
		"f. app'x":     "F. App'x",
		"f.app'x":      "F. App'x",
		"a.":           "A.",
		"a.2d":         "A.2d",
		"a.3d":         "A.3d",
		"p.":           "P.",
		"p.2d":         "P.2d",
		"p.3d":         "P.3d",
		"n.e.":         "N.E.",
		"n.e.2d":       "N.E.2d",
		"n.e.3d":       "N.E.3d",
		"n.w.":         "N.W.",
		"n.w.2d":       "N.W.2d",
		"s.e.":         "S.E.",
		"s.e.2d":       "S.E.2d",
		"s.w.":         "S.W.",
		"s.w.2d":       "S.W.2d",
		"s.w.3d":       "S.W.3d",
		"so.":          "So.",
		"so.2d":        "So.2d",
		"so.3d":        "So.3d",
		// UK
		"ac":  "A.C.",
		"a.c.": "A.C.",
		"ch":  "Ch.",
		"wlr": "W.L.R.",
		"all er": "All ER",
		// Canadian
		"scr":   "S.C.R.",
		"s.c.r.": "S.C.R.",
		"dlr":   "D.L.R.",
	}
}

func buildJournalNames() map[string]bool {
	names := []string{
		"harvard law review",
		"yale law journal",
		"columbia law review",
		"stanford law review",
		"university of chicago law review",
		"michigan law review",
		"california law review",
		"georgetown law journal",
		"virginia law review",
		"duke law journal",
		"nyu law review",
		"texas law review",
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func buildCourtAbbreviations() map[string]string {
	return map[string]string{
		"USSC":                 "SCOTUS",
		"US SUPREME COURT":     "SCOTUS",
		"SUPREME COURT":        "SCOTUS",
		"UK SUPREME COURT":     "UKSC",
		"UKSC":                 "UKSC",
		"SUPREME COURT OF CANADA": "SCC",
		"SCC":                  "SCC",
		"9TH CIR.":             "9th Cir.",
		"9TH CIR":              "9th Cir.",
		"2ND CIR.":             "2d Cir.",
		"D.D.C.":               "D.D.C.",
		"S.D.N.Y.":             "S.D.N.Y.",
		"N.D. CAL.":            "N.D. Cal.",
		"FCA":                  "Fed. Cir.",
	}
}
