// Package extract implements the per-type extractors: given a token
// and the cleaning transformation map, produce a fully populated
// models.Citation, dispatching on token type the way a Bluebook
// citation parser typically branches per format.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/citelink/citelink/internal/clean"
	"github.com/citelink/citelink/internal/config"
	"github.com/citelink/citelink/internal/lookup"
	"github.com/citelink/citelink/internal/pattern"
	"github.com/citelink/citelink/internal/tokenize"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// Extractor turns tokens into Citation records.
type Extractor struct {
	lookup  *lookup.Service
	scoring config.ScoringConfig
}

// NewExtractor builds an Extractor backed by the given lookup service
// and configurable confidence-scoring weights.
func NewExtractor(lk *lookup.Service, scoring config.ScoringConfig) *Extractor {
	return &Extractor{lookup: lk, scoring: scoring}
}

// Extract converts one token into a Citation. A nil return with a
// non-nil error means the token failed to parse: the caller must drop
// the token and record the diagnostic, not abort the pipeline.
func (e *Extractor) Extract(tok tokenize.Token, cleanedText string, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	switch tok.Type {
	case pattern.TypeSupremeCourt, pattern.TypeFederalReporter, pattern.TypeStateReporter:
		return e.extractCase(tok, cleanedText, tm)
	case pattern.TypeUSC, pattern.TypeStateCode:
		if tok.Type == pattern.TypeStateCode {
			prefix := strings.TrimRight(cleanedText[:tok.CleanStart], " \t\n")
			switch prefix[strings.LastIndexAny(prefix, " \t\n")+1:] {
			case "Model", "Uniform", "Restatement":
				return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
			}
		}
		return e.extractStatute(tok, tm)
	case pattern.TypeJournal:
		return e.extractJournal(tok, tm)
	case pattern.TypeNeutralWestlaw:
		return e.extractNeutral(tok, tm, "WL")
	case pattern.TypeNeutralLexis:
		return e.extractNeutral(tok, tm, "LEXIS")
	case pattern.TypePublicLaw:
		return e.extractPublicLaw(tok, tm)
	case pattern.TypeFederalRegister:
		return e.extractFederalRegister(tok, cleanedText, tm)
	case pattern.TypeStatutesAtLarge:
		return e.extractStatutesAtLarge(tok, tm)
	case pattern.TypeShortFormID:
		return e.extractID(tok, tm)
	case pattern.TypeShortFormSupra:
		return e.extractSupra(tok, tm)
	case pattern.TypeShortFormCase:
		return e.extractShortFormCase(tok, tm)
	default:
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
}

func baseCitation(tok tokenize.Token, typ models.CitationType, tm *clean.TransformationMap) models.Citation {
	return models.Citation{
		Type:        typ,
		Text:        tok.Text,
		MatchedText: tok.Text,
		Span:        tm.Span(tok.CleanStart, tok.CleanEnd),
	}
}

var yearRe = regexp.MustCompile(`\b(1[6-9]\d{2}|20\d{2})\b`)
var footnoteRe = regexp.MustCompile(`\bn\.\s?\d+|\bnote\s+\d+`)
var pinciteRangeRe = regexp.MustCompile(`^\d{1,5}(-\d{1,5})?$`)

// ---- case ----

func (e *Extractor) extractCase(tok tokenize.Token, cleanedText string, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	// The supreme-court pattern hardcodes "U.S." as a literal rather
	// than capturing it, so its groups shift relative to
	// federal-reporter/state-reporter (volume, reporter, page, ...).
	var volume, reporter, page string
	if tok.Type == pattern.TypeSupremeCourt {
		if len(tok.Groups) < 3 {
			return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
		}
		volume = tok.Groups[1]
		reporter = "U.S."
		page = tok.Groups[2]
	} else {
		if len(tok.Groups) < 4 {
			return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
		}
		volume = tok.Groups[1]
		reporter = strings.TrimSpace(tok.Groups[2])
		page = tok.Groups[3]
	}
	if volume == "" || reporter == "" || page == "" {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}

	// Reject journal-like tails on the state-reporter pattern. A
	// negative lookahead would normally do this, but RE2 has none, so
	// it is a post-match filter here instead.
	if tok.Type == pattern.TypeStateReporter && looksLikeJournal(reporter) {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}

	c := baseCitation(tok, models.TypeCase, tm)
	c.Volume = volume
	c.Reporter = reporter
	c.Page = page

	plaintiff, defendant, proceduralPrefix := scanCaption(cleanedText, tok.CleanStart)
	if plaintiff != "" {
		c.Plaintiff = &plaintiff
		norm := normalizeParty(plaintiff)
		c.PlaintiffNormalized = &norm
	}
	if defendant != "" {
		c.Defendant = &defendant
		norm := normalizeParty(defendant)
		c.DefendantNormalized = &norm
	}
	if proceduralPrefix != "" {
		c.ProceduralPrefix = &proceduralPrefix
	}

	pincite, parenthetical, year, court := scanForward(cleanedText, tok.CleanEnd)
	if pincite != "" {
		c.Pincite = &pincite
	}
	if parenthetical != "" {
		c.Parenthetical = &parenthetical
	}
	if year != 0 {
		y := year
		c.Year = &y
	}
	if court != "" {
		normalized := court
		if n := e.lookup.NormalizeCourt(court); n != nil {
			normalized = *n
		}
		c.Court = &normalized
	}

	c.Confidence = e.caseConfidence(reporter, c.Plaintiff != nil || c.Defendant != nil, c.Year != nil, c.Court != nil)
	return &c, nil
}

func (e *Extractor) caseConfidence(reporter string, captionFound, yearFound, courtFound bool) float64 {
	score := e.scoring.BaselineConfidence
	if e.lookup.IsKnownReporter(reporter) {
		score += e.scoring.KnownReporterBonus
	}
	if captionFound {
		score += e.scoring.CaptionFoundBonus
	}
	if yearFound {
		score += e.scoring.YearFoundBonus
	}
	if courtFound {
		score += e.scoring.CourtFoundBonus
	}
	if score > 1 {
		score = 1
	}
	return score
}

var procPrefixRe = regexp.MustCompile(`(?i)\b(In re|Ex parte|Matter of|In the Matter of|Application of|Petition of)\b`)
var govEntities = []string{"United States", "People", "Commonwealth", "State"}
var vSeparatorRe = regexp.MustCompile(`\s+(?:v\.?|vs\.?)\s+`)

// scanCaption scans backward from cleanStart up to the preceding
// period (other than the one ending "v." or "vs.") or newline for a
// case caption "Plaintiff v. Defendant", detecting a procedural prefix
// that replaces the plaintiff.
func scanCaption(text string, cleanStart int) (plaintiff, defendant, proceduralPrefix string) {
	begin := cleanStart
	for begin > 0 {
		r := text[begin-1]
		if r == '.' && (strings.HasSuffix(text[:begin-1], " v") || strings.HasSuffix(text[:begin-1], " vs")) {
			begin--
			continue
		}
		if r == '.' || r == '\n' {
			break
		}
		begin--
	}
	segment := strings.TrimSpace(text[begin:cleanStart])
	if segment == "" {
		return "", "", ""
	}

	if m := procPrefixRe.FindStringIndex(segment); m != nil {
		proceduralPrefix = strings.TrimSpace(segment[m[0]:m[1]])
		rest := strings.TrimSpace(segment[m[1]:])
		return "", rest, proceduralPrefix
	}

	loc := vSeparatorRe.FindStringIndex(segment)
	if loc == nil {
		return "", "", ""
	}
	plaintiff = strings.TrimSpace(segment[:loc[0]])
	defendant = strings.TrimSpace(segment[loc[1]:])
	return plaintiff, defendant, ""
}

var trailingEtAlRe = regexp.MustCompile(`(?i),?\s*et al\.?$`)
var dbaRe = regexp.MustCompile(`(?i)\s+d/b/a\s+.*$`)
var akaRe = regexp.MustCompile(`(?i)\s+a/k/a\s+.*$`)
var fkaRe = regexp.MustCompile(`(?i)\s+f/k/a\s+.*$`)
var corpSuffixRe = regexp.MustCompile(`(?i),?\s*(Inc|LLC|Ltd|Co|Corp|N\.A\.)\.?$`)
var leadingArticleRe = regexp.MustCompile(`(?i)^The\s+`)

// normalizeParty strips et al./d-b-a/a-k-a/f-k-a suffixes, corporate
// suffixes, and a leading "The", unless the party is a recognized
// government entity (which is never a procedural prefix and is
// returned unchanged).
func normalizeParty(party string) string {
	for _, g := range govEntities {
		if strings.EqualFold(party, g) {
			return g
		}
	}
	p := party
	p = trailingEtAlRe.ReplaceAllString(p, "")
	p = dbaRe.ReplaceAllString(p, "")
	p = akaRe.ReplaceAllString(p, "")
	p = fkaRe.ReplaceAllString(p, "")
	p = corpSuffixRe.ReplaceAllString(p, "")
	p = leadingArticleRe.ReplaceAllString(p, "")
	return strings.TrimSpace(p)
}

func looksLikeJournal(reporter string) bool {
	lower := strings.ToLower(reporter)
	return strings.Contains(lower, "rev") || strings.Contains(lower, "j.") || strings.Contains(lower, "q.")
}

// scanForward scans forward from cleanEnd for an optional pincite, a
// trailing parenthetical "(court? year)", skipping footnote markers
// and additional pincite ranges before finding the parenthesized year.
func scanForward(text string, cleanEnd int) (pincite, parenthetical string, year int, court string) {
	rest := text[cleanEnd:]
	i := 0

	for i < len(rest) {
		trimmed := strings.TrimLeft(rest[i:], " \t\n")
		consumed := len(rest[i:]) - len(trimmed)
		i += consumed

		if strings.HasPrefix(rest[i:], "(") {
			end := strings.Index(rest[i:], ")")
			if end == -1 {
				return pincite, "", year, court
			}
			inner := rest[i+1 : i+end]
			parenthetical = inner
			if ym := yearRe.FindString(inner); ym != "" {
				year, _ = strconv.Atoi(ym)
			}
			court = extractCourtToken(inner)
			return pincite, parenthetical, year, court
		}

		if strings.HasPrefix(rest[i:], ",") {
			i++
			continue
		}

		token, tokenLen := nextToken(rest[i:])
		if tokenLen == 0 {
			break
		}

		if footnoteRe.MatchString(token) {
			i += tokenLen
			continue
		}

		if strings.HasPrefix(token, "at ") {
			pincite = strings.TrimSpace(strings.TrimPrefix(token, "at"))
			i += tokenLen
			continue
		}

		if pinciteRangeRe.MatchString(token) {
			if pincite == "" {
				pincite = token
			}
			i += tokenLen
			continue
		}

		// unrecognized token: stop scanning forward.
		break
	}

	return pincite, parenthetical, year, court
}

// nextToken grabs the next comma-delimited chunk of rest, trimmed.
func nextToken(rest string) (string, int) {
	idx := strings.IndexAny(rest, ",(")
	if idx == -1 {
		idx = len(rest)
	}
	chunk := strings.TrimSpace(rest[:idx])
	if chunk == "" {
		return "", idx
	}
	return chunk, idx
}

// extractCourtToken pulls the court name out of a parenthetical's
// contents, stripping a trailing year.
func extractCourtToken(inner string) string {
	withoutYear := yearRe.ReplaceAllString(inner, "")
	court := strings.Trim(withoutYear, " ,")
	return court
}

// ---- statute ----

var statuteSectionSuffixRe = regexp.MustCompile(`^(\d+)([a-zA-Z]*)$`)

func (e *Extractor) extractStatute(tok tokenize.Token, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 3 {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	section := tok.Groups[2]
	if tok.Groups[1] == "" || section == "" {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	var title, code string
	if tok.Type == pattern.TypeStateCode {
		code = strings.TrimSpace(tok.Groups[1])
	} else {
		title = tok.Groups[1]
		code = "U.S.C."
	}

	c := baseCitation(tok, models.TypeStatute, tm)
	c.Title = title
	c.Code = code
	c.Section = section
	c.Confidence = 0.7
	return &c, nil
}

// ---- journal ----

func (e *Extractor) extractJournal(tok tokenize.Token, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 4 {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	c := baseCitation(tok, models.TypeJournal, tm)
	c.Volume = tok.Groups[1]
	c.JournalName = strings.TrimSpace(tok.Groups[2])
	c.Page = tok.Groups[3]
	if len(tok.Groups) > 4 && tok.Groups[4] != "" {
		y, _ := strconv.Atoi(tok.Groups[4])
		c.Year = &y
	}
	c.Confidence = 0.6
	if e.lookup.IsKnownJournal(c.JournalName) {
		c.Confidence = 0.8
	}
	return &c, nil
}

// ---- neutral ----

func (e *Extractor) extractNeutral(tok tokenize.Token, tm *clean.TransformationMap, database string) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 3 {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	y, err := strconv.Atoi(tok.Groups[1])
	if err != nil {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, err)
	}
	c := baseCitation(tok, models.TypeNeutral, tm)
	year := y
	c.Year = &year
	c.Database = database
	c.Sequence = tok.Groups[2]
	c.Confidence = 0.75
	return &c, nil
}

// ---- publicLaw ----

func (e *Extractor) extractPublicLaw(tok tokenize.Token, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 2 || tok.Groups[1] == "" {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	c := baseCitation(tok, models.TypePublicLaw, tm)
	c.Number = tok.Groups[1]
	c.Confidence = 0.8
	return &c, nil
}

// ---- federalRegister ----

var fedRegMonthDayRe = regexp.MustCompile(`(?i)^[A-Za-z]+\.?\s+\d{1,2},\s*`)

func (e *Extractor) extractFederalRegister(tok tokenize.Token, cleanedText string, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 3 {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	c := baseCitation(tok, models.TypeFederalRegister, tm)
	c.Volume = tok.Groups[1]
	c.Page = tok.Groups[2]
	if len(tok.Groups) > 3 && tok.Groups[3] != "" {
		inner := fedRegMonthDayRe.ReplaceAllString(tok.Groups[3], "")
		if ym := yearRe.FindString(inner); ym != "" {
			y, _ := strconv.Atoi(ym)
			c.Year = &y
		}
	}
	c.Confidence = 0.75
	return &c, nil
}

// ---- statutesAtLarge ----

func (e *Extractor) extractStatutesAtLarge(tok tokenize.Token, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 3 {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	c := baseCitation(tok, models.TypeStatutesAtLarge, tm)
	c.Volume = tok.Groups[1]
	c.Page = tok.Groups[2]
	c.Confidence = 0.7
	return &c, nil
}

// ---- short form ----

func (e *Extractor) extractID(tok tokenize.Token, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	c := baseCitation(tok, models.TypeID, tm)
	if len(tok.Groups) > 1 && tok.Groups[1] != "" {
		c.Pincite = &tok.Groups[1]
	}
	c.Confidence = 0.9
	return &c, nil
}

func (e *Extractor) extractSupra(tok tokenize.Token, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 2 || tok.Groups[1] == "" {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	c := baseCitation(tok, models.TypeSupra, tm)
	c.AntecedentGuess = tok.Groups[1]
	if len(tok.Groups) > 2 && tok.Groups[2] != "" {
		c.Pincite = &tok.Groups[2]
	}
	c.Confidence = 0.7
	return &c, nil
}

func (e *Extractor) extractShortFormCase(tok tokenize.Token, tm *clean.TransformationMap) (*models.Citation, *citelinkerrors.CitelinkError) {
	if len(tok.Groups) < 5 {
		return nil, citelinkerrors.ExtractorFailure(tok.Text, nil)
	}
	c := baseCitation(tok, models.TypeShortFormCase, tm)
	c.AntecedentGuess = tok.Groups[1]
	c.Volume = tok.Groups[2]
	c.Reporter = strings.TrimSpace(tok.Groups[3])
	c.Page = tok.Groups[4]
	c.Confidence = 0.75
	return &c, nil
}
