package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/internal/config"
	"github.com/citelink/citelink/pkg/models"
)

func testScoring() config.ScoringConfig {
	return config.ScoringConfig{SupraLevenshteinBudget: 2}
}

func strp(s string) *string { return &s }

func fullCaseCitation(plaintiff, defendant, volume, reporter, page string) models.Citation {
	return models.Citation{
		Type:                models.TypeCase,
		Volume:              volume,
		Reporter:            reporter,
		Page:                page,
		Plaintiff:           strp(plaintiff),
		Defendant:           strp(defendant),
		PlaintiffNormalized: strp(plaintiff),
		DefendantNormalized: strp(defendant),
	}
}

func TestResolve_IDFollowsImmediatelyPrecedingFullCitation(t *testing.T) {
	citations := []models.Citation{
		fullCaseCitation("Brown", "Board of Education", "347", "U.S.", "483"),
		{Type: models.TypeID},
	}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, nil)

	assert.Empty(t, diags)
	require.NotNil(t, out[1].Resolution)
	assert.Equal(t, 0, out[1].Resolution.ResolvedTo)
}

func TestResolve_IDChainsThroughPriorID(t *testing.T) {
	citations := []models.Citation{
		fullCaseCitation("Brown", "Board of Education", "347", "U.S.", "483"),
		{Type: models.TypeID},
		{Type: models.TypeID},
	}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, nil)

	assert.Empty(t, diags)
	require.NotNil(t, out[2].Resolution)
	assert.Equal(t, 0, out[2].Resolution.ResolvedTo)
}

func TestResolve_IDAsFirstCitationFails(t *testing.T) {
	citations := []models.Citation{
		{Type: models.TypeID},
	}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, nil)

	assert.Len(t, diags, 1)
	assert.Nil(t, out[0].Resolution)
}

func TestResolve_SupraMatchesExactPartyName(t *testing.T) {
	citations := []models.Citation{
		fullCaseCitation("Brown", "Board of Education", "347", "U.S.", "483"),
		{Type: models.TypeSupra, AntecedentGuess: "Brown"},
	}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, nil)

	assert.Empty(t, diags)
	require.NotNil(t, out[1].Resolution)
	assert.Equal(t, 0, out[1].Resolution.ResolvedTo)
}

func TestResolve_SupraMatchesWithinLevenshteinBudget(t *testing.T) {
	citations := []models.Citation{
		fullCaseCitation("Brown", "Board of Education", "347", "U.S.", "483"),
		{Type: models.TypeSupra, AntecedentGuess: "Browne"},
	}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, nil)

	assert.Empty(t, diags)
	require.NotNil(t, out[1].Resolution)
	assert.Equal(t, 0, out[1].Resolution.ResolvedTo)
}

func TestResolve_SupraBeyondBudgetFails(t *testing.T) {
	citations := []models.Citation{
		fullCaseCitation("Brown", "Board of Education", "347", "U.S.", "483"),
		{Type: models.TypeSupra, AntecedentGuess: "Zzzzzzz"},
	}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, nil)

	assert.Len(t, diags, 1)
	assert.Nil(t, out[1].Resolution)
}

func TestResolve_ShortFormCaseMatchesOnReporterWhenPartyUnknown(t *testing.T) {
	citations := []models.Citation{
		fullCaseCitation("Brown", "Board of Education", "347", "U.S.", "483"),
		{Type: models.TypeShortFormCase, AntecedentGuess: "Unrelated", Volume: "347", Reporter: "U.S."},
	}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, nil)

	assert.Empty(t, diags)
	require.NotNil(t, out[1].Resolution)
	assert.Equal(t, 0, out[1].Resolution.ResolvedTo)
}

func TestResolve_ScopeBoundaryBlocksCrossSectionResolution(t *testing.T) {
	citations := []models.Citation{
		fullCaseCitation("Brown", "Board of Education", "347", "U.S.", "483"),
		{Type: models.TypeID},
	}
	scopes := &ScopeMap{Scope: ScopeSection, Boundaries: []int{0, 1}}

	r := NewResolver(testScoring())
	out, diags := r.Resolve(citations, scopes)

	assert.Len(t, diags, 1)
	assert.Nil(t, out[1].Resolution)
}
