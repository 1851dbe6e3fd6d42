// Package parallel implements the parallel-citation detector: a pure
// function over the deduplicated case-token list that groups
// comma-separated case citations sharing a trailing parenthetical.
package parallel

import (
	"fmt"
	"strings"

	"github.com/citelink/citelink/internal/pattern"
	"github.com/citelink/citelink/internal/tokenize"
)

// Config exposes the detector's empirical proximity bound as a
// tunable.
type Config struct {
	MaxGapChars int
}

// DefaultConfig sets the proximity bound to 5 characters.
func DefaultConfig() Config {
	return Config{MaxGapChars: 5}
}

// Group is one detected parallel-citation chain: Primary is the first
// token, Secondaries are the following case tokens that share its
// trailing parenthetical.
type Group struct {
	Primary    tokenize.Token
	Secondaries []tokenize.Token
}

// Detect scans the deduplicated, case-type token list (already sorted
// by CleanStart) and returns the chains found, plus the set of token
// indices that participated in some group (primary or secondary) so
// callers can distinguish singleton case citations.
func Detect(tokens []tokenize.Token, cleanedText string, cfg Config) ([]Group, map[int]bool) {
	grouped := make(map[int]bool)
	var groups []Group

	caseIdx := caseTokenIndices(tokens)

	i := 0
	for i < len(caseIdx) {
		primary := tokens[caseIdx[i]]
		var secondaries []tokenize.Token
		secIdx := []int{}

		j := i + 1
		cursor := primary.CleanEnd
		for j < len(caseIdx) {
			candidate := tokens[caseIdx[j]]
			between := safeSlice(cleanedText, cursor, candidate.CleanStart)
			if !isCommaBridge(between, cfg.MaxGapChars) {
				break
			}
			if strings.Contains(between, ")") {
				break
			}
			if !hasTrailingParenthetical(cleanedText, candidate.CleanEnd) {
				break
			}
			secondaries = append(secondaries, candidate)
			secIdx = append(secIdx, caseIdx[j])
			cursor = candidate.CleanEnd
			j++
		}

		if len(secondaries) > 0 {
			groups = append(groups, Group{Primary: primary, Secondaries: secondaries})
			grouped[caseIdx[i]] = true
			for _, idx := range secIdx {
				grouped[idx] = true
			}
			i = j
			continue
		}
		i++
	}

	return groups, grouped
}

func caseTokenIndices(tokens []tokenize.Token) []int {
	var idx []int
	for i, t := range tokens {
		switch t.Type {
		case pattern.TypeSupremeCourt, pattern.TypeFederalReporter, pattern.TypeStateReporter:
			idx = append(idx, i)
		}
	}
	return idx
}

func safeSlice(text string, start, end int) string {
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	return text[start:end]
}

// isCommaBridge reports whether between is only whitespace/commas and
// at most maxGap characters long.
func isCommaBridge(between string, maxGap int) bool {
	if len(between) > maxGap {
		return false
	}
	for _, r := range between {
		if r != ',' && r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return strings.Contains(between, ",")
}

// hasTrailingParenthetical reports whether a parenthetical
// "(court? year)" immediately (modulo whitespace/commas/pincites)
// follows offset end in text.
func hasTrailingParenthetical(text string, end int) bool {
	rest := text[end:]
	rest = strings.TrimLeft(rest, " \t\n,")
	rest = strings.TrimPrefix(rest, "at ")
	// allow an optional pincite like ", 115" or "at 115" before the
	// parenthetical, already trimmed of its leading comma above.
	for len(rest) > 0 && (rest[0] >= '0' && rest[0] <= '9' || rest[0] == '-' || rest[0] == ' ') {
		rest = rest[1:]
	}
	return strings.HasPrefix(rest, "(")
}

// GroupID computes the parallel group's stable id from the primary
// citation's volume/reporter/page as "${volume}-${reporter}-${page}".
func GroupID(volume, reporter, page string) string {
	return fmt.Sprintf("%s-%s-%s", volume, reporter, page)
}
