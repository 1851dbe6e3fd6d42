// Package dedup implements two-pass deduplication/overlap resolution:
// exact duplicates are hash-collapsed first, then remaining overlaps
// are resolved by a fixed precedence table.
package dedup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/citelink/citelink/internal/pattern"
	"github.com/citelink/citelink/internal/tokenize"
)

// precedence gives each pattern Type a rank; a higher rank dominates
// a lower one when two tokens overlap. Ties are broken by longer
// match, then earlier CleanStart (see dominates).
var precedence = map[pattern.Type]int{
	pattern.TypePublicLaw:       100,
	pattern.TypeNeutralWestlaw:  95,
	pattern.TypeNeutralLexis:    90, // overridden to beat supreme-court when text contains "LEXIS", see dominates()
	pattern.TypeFederalRegister: 85,
	pattern.TypeSupremeCourt:    80,
	pattern.TypeFederalReporter: 70,
	pattern.TypeStateReporter:   60,
	pattern.TypeJournal:         50,
	pattern.TypeUSC:             40,
	pattern.TypeStateCode:       30,
	pattern.TypeShortFormCase:   20,
	pattern.TypeShortFormSupra:  15,
	pattern.TypeShortFormID:     10,
	pattern.TypeStatutesAtLarge: 5,
}

// Dedup collapses exact duplicates (same CleanStart, CleanEnd,
// PatternID) and then resolves overlaps under the fixed precedence
// rule, returning tokens sorted by ascending CleanStart.
func Dedup(tokens []tokenize.Token) []tokenize.Token {
	exact := collapseExact(tokens)
	return collapseOverlaps(exact)
}

func collapseExact(tokens []tokenize.Token) []tokenize.Token {
	seen := make(map[string]bool, len(tokens))
	out := make([]tokenize.Token, 0, len(tokens))
	for _, t := range tokens {
		key := exactKey(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// exactKey identities a token by (CleanStart, CleanEnd, PatternID).
func exactKey(t tokenize.Token) string {
	return fmt.Sprintf("%d:%d:%s", t.CleanStart, t.CleanEnd, t.PatternID)
}

func collapseOverlaps(tokens []tokenize.Token) []tokenize.Token {
	if len(tokens) == 0 {
		return tokens
	}

	sorted := make([]tokenize.Token, len(tokens))
	copy(sorted, tokens)
	sortByStart(sorted)

	kept := make([]tokenize.Token, 0, len(sorted))
	for _, t := range sorted {
		displaced := -1
		overlapsExisting := false
		for i, k := range kept {
			if overlaps(t, k) {
				overlapsExisting = true
				if dominates(t, k) {
					displaced = i
				} else {
					displaced = -2 // existing token wins; drop t
				}
				break
			}
		}
		switch {
		case !overlapsExisting:
			kept = append(kept, t)
		case displaced >= 0:
			kept[displaced] = t
		default:
			// existing wins; drop t
		}
	}

	sortByStart(kept)
	return kept
}

func overlaps(a, b tokenize.Token) bool {
	return a.CleanStart < b.CleanEnd && b.CleanStart < a.CleanEnd
}

// dominates reports whether challenger should replace incumbent, with
// two textual special cases (LEXIS beating supreme-court; public-law/
// westlaw dominating any overlapping case pattern) applied before
// falling back to the numeric precedence table and then the
// tie-break (longer match, then earlier start).
func dominates(challenger, incumbent tokenize.Token) bool {
	if challenger.Type == pattern.TypeNeutralLexis && incumbent.Type == pattern.TypeSupremeCourt && strings.Contains(challenger.Text, "LEXIS") {
		return true
	}
	if incumbent.Type == pattern.TypeNeutralLexis && challenger.Type == pattern.TypeSupremeCourt && strings.Contains(incumbent.Text, "LEXIS") {
		return false
	}
	if isCasePattern(incumbent.Type) && (challenger.Type == pattern.TypePublicLaw || challenger.Type == pattern.TypeNeutralWestlaw) {
		return true
	}
	if isCasePattern(challenger.Type) && (incumbent.Type == pattern.TypePublicLaw || incumbent.Type == pattern.TypeNeutralWestlaw) {
		return false
	}

	pc, pi := precedence[challenger.Type], precedence[incumbent.Type]
	if pc != pi {
		return pc > pi
	}

	lc := challenger.CleanEnd - challenger.CleanStart
	li := incumbent.CleanEnd - incumbent.CleanStart
	if lc != li {
		return lc > li
	}
	return challenger.CleanStart < incumbent.CleanStart
}

func isCasePattern(t pattern.Type) bool {
	switch t {
	case pattern.TypeSupremeCourt, pattern.TypeFederalReporter, pattern.TypeStateReporter:
		return true
	default:
		return false
	}
}

func sortByStart(tokens []tokenize.Token) {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].CleanStart < tokens[j].CleanStart
	})
}
