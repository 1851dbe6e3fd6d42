// Package tokenize applies the pattern registry to cleaned text,
// producing candidate tokens for the Deduplicator, by iterating the
// compiled patterns in registration order and collecting matches.
package tokenize

import (
	"sort"

	"github.com/citelink/citelink/internal/pattern"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
)

// Token is the ephemeral candidate produced by the Tokenizer and
// consumed by the Deduplicator/Extractors.
type Token struct {
	Text       string
	CleanStart int
	CleanEnd   int
	Type       pattern.Type
	PatternID  string
	Groups     []string // regex submatches, index 0 is the full match
}

// Diagnostic describes a recovered, non-fatal failure encountered
// while tokenizing.
type Diagnostic struct {
	Err *citelinkerrors.CitelinkError
}

// Tokenize applies every pattern in registry in registration order to
// cleanedText and returns all matches sorted by ascending CleanStart.
// A pattern whose execution panics is recovered, logged via the
// returned diagnostics, and skipped; the remaining patterns still run.
func Tokenize(cleanedText string, registry *pattern.Registry) ([]Token, []Diagnostic) {
	var tokens []Token
	var diags []Diagnostic

	for _, p := range registry.Patterns() {
		matches, diag := safeFindAll(p, cleanedText)
		if diag != nil {
			diags = append(diags, *diag)
			continue
		}
		tokens = append(tokens, matches...)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].CleanStart < tokens[j].CleanStart
	})

	return tokens, diags
}

// safeFindAll runs one pattern over text, recovering from a panic in
// the regex engine: a pattern failure is logged and skipped, and the
// remaining patterns still run.
func safeFindAll(p pattern.Pattern, text string) (tokens []Token, diag *Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diag = &Diagnostic{Err: citelinkerrors.PatternFailure(p.ID, panicToErr(r))}
			tokens = nil
		}
	}()

	matches := p.Regex.FindAllStringSubmatchIndex(text, -1)
	for _, m := range matches {
		start, end := m[0], m[1]
		groups := make([]string, 0, len(m)/2)
		for i := 0; i < len(m); i += 2 {
			if m[i] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, text[m[i]:m[i+1]])
		}
		tokens = append(tokens, Token{
			Text:       text[start:end],
			CleanStart: start,
			CleanEnd:   end,
			Type:       p.Type,
			PatternID:  p.ID,
			Groups:     groups,
		})
	}
	return tokens, nil
}

func panicToErr(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicErr{r}
}

type panicErr struct{ v interface{} }

func (e *panicErr) Error() string { return "pattern engine panic" }
