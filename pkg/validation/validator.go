package validation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// Validator provides struct-tag validation for the citation models,
// on top of go-playground/validator/v10.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("reporter_abbrev", validateReporterAbbrev)
	return &Validator{validate: v}
}

// ValidateCitation validates a Citation model: struct tags plus the
// business invariants (confidence in [0,1], a non-empty span, a
// plausible year on case citations).
func (v *Validator) ValidateCitation(c *models.Citation) error {
	if err := v.validate.Struct(c); err != nil {
		return errors.ValidationError("citation validation failed", err)
	}

	if c.Confidence < 0 || c.Confidence > 1 {
		return errors.ValidationError("confidence must be between 0 and 1", nil)
	}

	if c.Span.OriginalStart < 0 || c.Span.OriginalEnd <= c.Span.OriginalStart {
		return errors.ValidationError("span must be a non-empty, non-negative range", nil)
	}

	if c.Type == models.TypeCase && c.Year != nil {
		if *c.Year < 1600 || *c.Year > 2200 {
			return errors.ValidationError("invalid case year", nil)
		}
	}

	return nil
}

func validateReporterAbbrev(fl validator.FieldLevel) bool {
	reporter := fl.Field().String()
	if reporter == "" {
		return true
	}
	pattern := regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.'\s]*$`)
	return pattern.MatchString(reporter)
}

// QualityScorer scores how complete a Citation's extracted fields are,
// separate from its Confidence score (which reflects pattern-match
// certainty, not field completeness).
type QualityScorer struct{}

// NewQualityScorer creates a new QualityScorer.
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{}
}

// Score returns a 0-1 completeness score based on which optional
// fields the extractor was able to populate for c.
func (qs *QualityScorer) Score(c *models.Citation) float64 {
	required := []bool{
		c.Text != "",
		c.MatchedText != "",
		c.Span.OriginalEnd > c.Span.OriginalStart,
	}

	score, maxScore := 0.0, 0.0
	for _, present := range required {
		maxScore += 1.0
		if present {
			score += 1.0
		}
	}

	var optional []bool
	switch c.Type {
	case models.TypeCase:
		optional = []bool{
			c.Volume != "", c.Reporter != "", c.Page != "",
			c.Year != nil, c.Court != nil,
			c.Plaintiff != nil, c.Defendant != nil,
		}
	case models.TypeStatute:
		optional = []bool{c.Title != "", c.Code != "", c.Section != ""}
	case models.TypeJournal:
		optional = []bool{c.Volume != "", c.JournalName != "", c.Page != ""}
	}

	for _, present := range optional {
		maxScore += 0.5
		if present {
			score += 0.5
		}
	}

	if maxScore == 0 {
		return 0.0
	}
	return score / maxScore
}

// DeduplicationService hashes citations to detect duplicates that
// internal/dedup's position-based pass wouldn't catch (e.g. the same
// citation reappearing across two different documents in a batch).
type DeduplicationService struct {
	seenHashes map[string]bool
}

// NewDeduplicationService creates a new DeduplicationService.
func NewDeduplicationService() *DeduplicationService {
	return &DeduplicationService{seenHashes: make(map[string]bool)}
}

// ComputeCitationHash computes a stable hash for a citation's
// identifying fields, independent of where it was found.
func (ds *DeduplicationService) ComputeCitationHash(c *models.Citation) string {
	hashInput := fmt.Sprintf("%s|%s|%s|%s",
		string(c.Type),
		strings.ToLower(c.Volume),
		strings.ToLower(c.Reporter),
		strings.ToLower(c.Page),
	)
	if c.Year != nil {
		hashInput += fmt.Sprintf("|%d", *c.Year)
	}

	hash := sha256.Sum256([]byte(hashInput))
	return hex.EncodeToString(hash[:])
}

// IsDuplicate reports whether hash has been seen before, recording it
// if not.
func (ds *DeduplicationService) IsDuplicate(hash string) bool {
	if ds.seenHashes[hash] {
		return true
	}
	ds.seenHashes[hash] = true
	return false
}

// Reset clears the deduplication cache.
func (ds *DeduplicationService) Reset() {
	ds.seenHashes = make(map[string]bool)
}

// CompletenessChecker reports which fields a citation is missing for
// its type, relative to what a fully-resolved citation of that type
// should carry.
type CompletenessChecker struct{}

// NewCompletenessChecker creates a new CompletenessChecker.
func NewCompletenessChecker() *CompletenessChecker {
	return &CompletenessChecker{}
}

// CheckCompleteness checks whether c has the fields a citation of its
// type is expected to carry once fully extracted.
func (cc *CompletenessChecker) CheckCompleteness(c *models.Citation) (bool, []string) {
	var missing []string

	switch c.Type {
	case models.TypeCase:
		if c.Volume == "" {
			missing = append(missing, "volume")
		}
		if c.Reporter == "" {
			missing = append(missing, "reporter")
		}
		if c.Page == "" {
			missing = append(missing, "page")
		}
	case models.TypeStatute:
		if c.Title == "" {
			missing = append(missing, "title")
		}
		if c.Section == "" {
			missing = append(missing, "section")
		}
	case models.TypeJournal:
		if c.Volume == "" {
			missing = append(missing, "volume")
		}
		if c.JournalName == "" {
			missing = append(missing, "journal")
		}
	}

	return len(missing) == 0, missing
}
