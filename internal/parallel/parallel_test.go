package parallel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citelink/citelink/internal/pattern"
	"github.com/citelink/citelink/internal/tokenize"
)

func tok(typ pattern.Type, start, end int) tokenize.Token {
	return tokenize.Token{Type: typ, CleanStart: start, CleanEnd: end}
}

func TestDetect_GroupsCommaSeparatedParallelCites(t *testing.T) {
	text := "See Brown, 347 U.S. 483, 74 S. Ct. 686 (1954)."
	tokens := []tokenize.Token{
		tok(pattern.TypeSupremeCourt, 11, 23),
		tok(pattern.TypeFederalReporter, 25, 38),
	}

	groups, grouped := Detect(tokens, text, DefaultConfig())

	assert.Len(t, groups, 1)
	assert.Equal(t, tokens[0], groups[0].Primary)
	assert.Equal(t, []tokenize.Token{tokens[1]}, groups[0].Secondaries)
	assert.True(t, grouped[0])
	assert.True(t, grouped[1])
}

func TestDetect_NoGroupWhenGapTooLarge(t *testing.T) {
	text := "See 347 U.S. 483 and also somewhere much later 74 S. Ct. 686 (1954)."
	tokens := []tokenize.Token{
		tok(pattern.TypeSupremeCourt, 4, 16),
		tok(pattern.TypeFederalReporter, 47, 60),
	}

	groups, grouped := Detect(tokens, text, DefaultConfig())

	assert.Empty(t, groups)
	assert.Empty(t, grouped)
}

func TestDetect_NoGroupWithoutTrailingParenthetical(t *testing.T) {
	text := "See 347 U.S. 483, 74 S. Ct. 686 without a parenthetical."
	tokens := []tokenize.Token{
		tok(pattern.TypeSupremeCourt, 4, 16),
		tok(pattern.TypeFederalReporter, 18, 31),
	}

	groups, grouped := Detect(tokens, text, DefaultConfig())

	assert.Empty(t, groups)
	assert.Empty(t, grouped)
}

func TestDetect_SingletonCaseCitationNotGrouped(t *testing.T) {
	text := "See 347 U.S. 483 (1954)."
	tokens := []tokenize.Token{
		tok(pattern.TypeSupremeCourt, 4, 16),
	}

	groups, grouped := Detect(tokens, text, DefaultConfig())

	assert.Empty(t, groups)
	assert.Empty(t, grouped)
}

func TestDetect_IgnoresNonCaseTokenTypes(t *testing.T) {
	text := "See 42 U.S.C. Sec. 1983 and 347 U.S. 483 (1954)."
	tokens := []tokenize.Token{
		tok(pattern.Type("statute"), 4, 24),
		tok(pattern.TypeSupremeCourt, 29, 42),
	}

	groups, grouped := Detect(tokens, text, DefaultConfig())

	assert.Empty(t, groups)
	assert.Empty(t, grouped)
}

func TestGroupID_FormatsVolumeReporterPage(t *testing.T) {
	assert.Equal(t, "347-U.S.-483", GroupID("347", "U.S.", "483"))
}

func TestIsCommaBridge_RejectsNonCommaContent(t *testing.T) {
	assert.True(t, isCommaBridge(", ", 5))
	assert.False(t, isCommaBridge(" and ", 5))
	assert.False(t, isCommaBridge(",,,,,,", 5))
}
