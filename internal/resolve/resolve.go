// Package resolve implements the Resolver: linking short-form
// citations (Id./Ibid., supra, shortFormCase) back to a full-citation
// antecedent that precedes them in the same document, falling back to
// an edit-distance match when no exact party name is found.
package resolve

import (
	"github.com/citelink/citelink/internal/config"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// Scope names the boundary a short-form citation's antecedent search
// must not cross.
type Scope string

const (
	ScopeNone       Scope = "none"
	ScopeParagraph  Scope = "paragraph"
	ScopeSection    Scope = "section"
	ScopeFootnote   Scope = "footnote"
)

// ScopeMap tells the Resolver which scope region (by index into
// Boundaries) each citation index falls into. Boundaries must be
// nondecreasing; citation i is in the same region as citation j when
// Boundaries[i] == Boundaries[j].
type ScopeMap struct {
	Scope      Scope
	Boundaries []int
}

// Resolver links short-form citations to full-citation antecedents.
type Resolver struct {
	scoring config.ScoringConfig
}

// NewResolver builds a Resolver using the given scoring configuration,
// which sets the supra match's Levenshtein budget.
func NewResolver(scoring config.ScoringConfig) *Resolver {
	return &Resolver{scoring: scoring}
}

// antecedentIndex indexes full citations seen so far, in document
// order, for O(1) lookup by normalized key.
type antecedentIndex struct {
	byParty map[string]int // normalized plaintiff/defendant -> citation index
	byCite  map[string]int // "volume-reporter-page" -> citation index
	order   []int          // citation indices in document order, full citations only
}

func newAntecedentIndex() *antecedentIndex {
	return &antecedentIndex{byParty: map[string]int{}, byCite: map[string]int{}}
}

func (a *antecedentIndex) record(idx int, c *models.Citation) {
	a.order = append(a.order, idx)
	if c.PlaintiffNormalized != nil {
		a.byParty[*c.PlaintiffNormalized] = idx
	}
	if c.DefendantNormalized != nil {
		a.byParty[*c.DefendantNormalized] = idx
	}
	if c.Volume != "" && c.Reporter != "" && c.Page != "" {
		a.byCite[c.Volume+"-"+c.Reporter+"-"+c.Page] = idx
	}
}

// Resolve walks citations in document order (already sorted by
// CleanStart) and populates Resolution on every short-form citation it
// can link. scopes maps each citation index to its ScopeMap boundary
// region for the Id./Ibid. chain and supra/shortFormCase searches; pass
// nil for no scope restriction. Citations that cannot be resolved are
// left with Resolution == nil and a ResolutionFailure diagnostic is
// returned for each (non-fatal).
func (r *Resolver) Resolve(citations []models.Citation, scopes *ScopeMap) ([]models.Citation, []*citelinkerrors.CitelinkError) {
	out := make([]models.Citation, len(citations))
	copy(out, citations)

	idx := newAntecedentIndex()
	var diags []*citelinkerrors.CitelinkError
	lastFullIdx := -1

	for i := range out {
		c := &out[i]
		if c.IsFull() {
			idx.record(i, c)
			lastFullIdx = i
			continue
		}

		var resolved = -1
		switch c.Type {
		case models.TypeID:
			resolved = r.resolveID(out, i, lastFullIdx, scopes)
		case models.TypeSupra:
			resolved = r.resolveSupra(out, i, idx, scopes)
		case models.TypeShortFormCase:
			resolved = r.resolveShortFormCase(out, i, idx, scopes)
		}

		if resolved >= 0 {
			c.Resolution = &models.Resolution{ResolvedTo: resolved}
		} else {
			diags = append(diags, citelinkerrors.ResolutionFailure(i))
		}
	}

	return out, diags
}

// resolveID follows the Id./Ibid. chain: it always refers to the
// immediately preceding citation (full or another Id.), so the chain
// is resolved by walking Resolution pointers back to their eventual
// full-citation target.
func (r *Resolver) resolveID(citations []models.Citation, i, lastFullIdx int, scopes *ScopeMap) int {
	if i == 0 {
		return -1
	}
	prev := &citations[i-1]
	if !inScope(scopes, i, i-1) {
		return -1
	}
	if prev.IsFull() {
		return i - 1
	}
	if prev.Type == models.TypeID && prev.Resolution != nil {
		return prev.Resolution.ResolvedTo
	}
	if lastFullIdx >= 0 && lastFullIdx < i {
		return lastFullIdx
	}
	return -1
}

// resolveSupra matches the supra token's captured antecedent name
// (exact match first, then Levenshtein <= SupraLevenshteinBudget)
// against known party names, preferring the most recent candidate on a
// tie.
func (r *Resolver) resolveSupra(citations []models.Citation, i int, idx *antecedentIndex, scopes *ScopeMap) int {
	target := c(citations, i).AntecedentGuess
	if target == "" {
		return -1
	}

	if match, ok := idx.byParty[target]; ok && inScope(scopes, i, match) {
		return match
	}

	best := -1
	bestDist := r.scoring.SupraLevenshteinBudget + 1
	for _, candidateIdx := range idx.order {
		if !inScope(scopes, i, candidateIdx) {
			continue
		}
		cand := &citations[candidateIdx]
		for _, name := range []*string{cand.PlaintiffNormalized, cand.DefendantNormalized} {
			if name == nil {
				continue
			}
			d := levenshtein(target, *name)
			if d <= r.scoring.SupraLevenshteinBudget && d <= bestDist {
				if d < bestDist || candidateIdx > best {
					bestDist = d
					best = candidateIdx
				}
			}
		}
	}
	return best
}

// resolveShortFormCase matches on volume+reporter (a shortFormCase's
// Page is its pincite, so page is not compared). Among in-scope
// antecedents with the same volume and reporter, the one whose party
// name equals the captured antecedent guess is preferred; otherwise the
// most recent one is chosen.
func (r *Resolver) resolveShortFormCase(citations []models.Citation, i int, idx *antecedentIndex, scopes *ScopeMap) int {
	cite := c(citations, i)
	if match, ok := idx.byParty[cite.AntecedentGuess]; ok && inScope(scopes, i, match) && citations[match].Volume == cite.Volume && citations[match].Reporter == cite.Reporter {
		return match
	}
	for j := len(idx.order) - 1; j >= 0; j-- {
		candidateIdx := idx.order[j]
		if !inScope(scopes, i, candidateIdx) {
			continue
		}
		cand := &citations[candidateIdx]
		if cand.Reporter == cite.Reporter && cand.Volume == cite.Volume {
			return candidateIdx
		}
	}
	return -1
}

func c(citations []models.Citation, i int) *models.Citation {
	return &citations[i]
}

// inScope reports whether candidateIdx is a valid antecedent for
// citationIdx under scopes; a nil scopes map imposes no restriction.
func inScope(scopes *ScopeMap, citationIdx, candidateIdx int) bool {
	if scopes == nil || scopes.Scope == ScopeNone {
		return true
	}
	if citationIdx >= len(scopes.Boundaries) || candidateIdx >= len(scopes.Boundaries) {
		return true
	}
	return scopes.Boundaries[citationIdx] == scopes.Boundaries[candidateIdx]
}

// levenshtein computes the edit distance between a and b using the
// standard two-row dynamic-programming table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
