package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/pkg/models"
)

func citationAt(text, matched string) models.Citation {
	start := indexOf(text, matched)
	return models.Citation{
		Text:        matched,
		MatchedText: matched,
		Span:        models.Span{OriginalStart: start, OriginalEnd: start + len(matched), CleanStart: start, CleanEnd: start + len(matched)},
	}
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func TestAnnotate_WrapsWithTemplate(t *testing.T) {
	text := "See 347 U.S. 483 (1954) for the holding."
	c := citationAt(text, "347 U.S. 483")

	result := Annotate(text, []models.Citation{c}, Options{
		Template: &Template{Before: "<cite>", After: "</cite>"},
	})

	assert.Contains(t, result.Text, "<cite>347 U.S. 483</cite>")
	assert.Empty(t, result.Skipped)
}

func TestAnnotate_AutoEscapesByDefault(t *testing.T) {
	text := `cite: A & B`
	c := citationAt(text, "A & B")

	result := Annotate(text, []models.Citation{c}, Options{})

	assert.Contains(t, result.Text, "A &amp; B")
}

func TestAnnotate_SkipsOutOfBoundsSpan(t *testing.T) {
	text := "short text"
	c := models.Citation{Span: models.Span{OriginalStart: 50, OriginalEnd: 60}}

	result := Annotate(text, []models.Citation{c}, Options{})

	assert.Equal(t, text, result.Text)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 0, result.Skipped[0])
}

func TestAnnotate_CallbackReceivesContext(t *testing.T) {
	text := "See 347 U.S. 483 (1954) for the holding."
	c := citationAt(text, "347 U.S. 483")

	var capturedContext string
	result := Annotate(text, []models.Citation{c}, Options{
		Callback: func(cit models.Citation, ctx string) string {
			capturedContext = ctx
			return "[[CITATION]]"
		},
	})

	assert.Contains(t, result.Text, "[[CITATION]]")
	assert.Contains(t, capturedContext, "347 U.S. 483")
}

func TestAnnotate_MultipleCitationsBackToFront(t *testing.T) {
	text := "347 U.S. 483 and 18 U.S.C. 1001 both apply."
	c1 := citationAt(text, "347 U.S. 483")
	c2 := citationAt(text, "18 U.S.C. 1001")

	result := Annotate(text, []models.Citation{c1, c2}, Options{
		Template: &Template{Before: "[", After: "]"},
	})

	assert.Contains(t, result.Text, "[347 U.S. 483]")
	assert.Contains(t, result.Text, "[18 U.S.C. 1001]")
}
