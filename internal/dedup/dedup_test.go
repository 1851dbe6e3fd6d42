package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citelink/citelink/internal/pattern"
	"github.com/citelink/citelink/internal/tokenize"
)

func tok(text string, start, end int, typ pattern.Type, patternID string) tokenize.Token {
	return tokenize.Token{Text: text, CleanStart: start, CleanEnd: end, Type: typ, PatternID: patternID}
}

func TestDedup_CollapsesExactDuplicates(t *testing.T) {
	tokens := []tokenize.Token{
		tok("347 U.S. 483", 0, 12, pattern.TypeSupremeCourt, "p1"),
		tok("347 U.S. 483", 0, 12, pattern.TypeSupremeCourt, "p1"),
	}

	out := Dedup(tokens)
	assert.Len(t, out, 1)
}

func TestDedup_HigherPrecedenceWinsOverlap(t *testing.T) {
	tokens := []tokenize.Token{
		tok("347 U.S. 483", 0, 12, pattern.TypeStateReporter, "p-state"),
		tok("347 U.S. 483", 0, 12, pattern.TypeSupremeCourt, "p-scotus"),
	}

	out := Dedup(tokens)
	if assert.Len(t, out, 1) {
		assert.Equal(t, pattern.TypeSupremeCourt, out[0].Type)
	}
}

func TestDedup_NonOverlappingTokensBothKept(t *testing.T) {
	tokens := []tokenize.Token{
		tok("347 U.S. 483", 0, 12, pattern.TypeSupremeCourt, "p1"),
		tok("18 U.S.C. § 1001", 20, 36, pattern.TypeUSC, "p2"),
	}

	out := Dedup(tokens)
	assert.Len(t, out, 2)
	assert.Equal(t, 0, out[0].CleanStart)
	assert.Equal(t, 20, out[1].CleanStart)
}

func TestDedup_LongerMatchWinsOnTie(t *testing.T) {
	tokens := []tokenize.Token{
		tok("123 F.3d 456", 0, 12, pattern.TypeFederalReporter, "p1"),
		tok("F.3d 456", 4, 12, pattern.TypeFederalReporter, "p2"),
	}

	out := Dedup(tokens)
	if assert.Len(t, out, 1) {
		assert.Equal(t, 0, out[0].CleanStart)
		assert.Equal(t, "123 F.3d 456", out[0].Text)
	}
}

func TestDedup_EmptyInput(t *testing.T) {
	out := Dedup(nil)
	assert.Empty(t, out)
}
