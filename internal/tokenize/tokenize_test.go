package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/internal/pattern"
)

func TestTokenize_FindsSupremeCourtCitation(t *testing.T) {
	registry := pattern.NewRegistry()
	text := "As held in Brown v. Board of Education, 347 U.S. 483 (1954), segregation is unconstitutional."

	tokens, diags := Tokenize(text, registry)

	require.Empty(t, diags)
	found := false
	for _, tok := range tokens {
		if tok.Type == pattern.TypeSupremeCourt {
			found = true
			assert.Contains(t, tok.Text, "347 U.S. 483")
		}
	}
	assert.True(t, found, "expected a supreme-court token")
}

func TestTokenize_SortsTokensByCleanStart(t *testing.T) {
	registry := pattern.NewRegistry()
	text := "See 18 U.S.C. § 1001 and also 347 U.S. 483 (1954)."

	tokens, _ := Tokenize(text, registry)

	for i := 1; i < len(tokens); i++ {
		assert.LessOrEqual(t, tokens[i-1].CleanStart, tokens[i].CleanStart)
	}
}

func TestTokenize_NoMatchesReturnsEmpty(t *testing.T) {
	registry := pattern.NewRegistry()
	tokens, diags := Tokenize("no citations in this sentence at all", registry)

	assert.Empty(t, tokens)
	assert.Empty(t, diags)
}
