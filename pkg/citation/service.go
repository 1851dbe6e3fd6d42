// Package citation is the top-level library surface: clean, tokenize,
// extractCitations, extractCitationsAsync, resolveCitations, and
// annotate, composed from the internal pipeline packages. Service is a
// thin orchestrator wrapping
// clean/pattern/tokenize/dedup/parallel/extract/lookup/resolve/annotate.
package citation

import (
	"context"

	"github.com/citelink/citelink/internal/annotate"
	"github.com/citelink/citelink/internal/clean"
	"github.com/citelink/citelink/internal/config"
	"github.com/citelink/citelink/internal/dedup"
	"github.com/citelink/citelink/internal/extract"
	"github.com/citelink/citelink/internal/lookup"
	"github.com/citelink/citelink/internal/parallel"
	"github.com/citelink/citelink/internal/pattern"
	"github.com/citelink/citelink/internal/resolve"
	"github.com/citelink/citelink/internal/tokenize"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// Scope names the short-form resolution boundary, re-exported from
// internal/resolve for callers of this package.
type Scope = resolve.Scope

const (
	ScopeNone      = resolve.ScopeNone
	ScopeParagraph = resolve.ScopeParagraph
	ScopeSection   = resolve.ScopeSection
	ScopeFootnote  = resolve.ScopeFootnote
)

// ExtractOptions configures ExtractCitations: which cleaning steps to
// run, whether to resolve short-form citations, and (when resolving)
// the ScopeMap to resolve within. Scope is carried with the options but
// ExtractCitations does not read it; only Scopes restricts resolution,
// and with Scopes nil every earlier full citation is a candidate.
type ExtractOptions struct {
	CleanSteps []clean.Step
	Resolve    bool
	Scope      Scope
	Scopes     *resolve.ScopeMap
}

// ExtractResult bundles the pipeline's output and the diagnostics
// collected along the way; a failure on one token never aborts the
// call, it just adds a diagnostic and moves on.
type ExtractResult struct {
	Citations   []models.Citation
	Diagnostics []*citelinkerrors.CitelinkError
}

// Service is the stateful façade holding the immutable
// pattern/lookup/scoring collaborators; build once per process and
// share across concurrent calls.
type Service struct {
	patterns  *pattern.Registry
	lookup    *lookup.Service
	extractor *extract.Extractor
	resolver  *resolve.Resolver
	scoring   config.ScoringConfig
}

// NewService builds a Service from cfg's scoring configuration.
func NewService(cfg config.ScoringConfig) *Service {
	lk := lookup.NewService()
	return &Service{
		patterns:  pattern.NewRegistry(),
		lookup:    lk,
		extractor: extract.NewExtractor(lk, cfg),
		resolver:  resolve.NewResolver(cfg),
		scoring:   cfg,
	}
}

// Clean runs the cleaning pipeline over text, defaulting to
// clean.DefaultSteps() when steps is nil.
func (s *Service) Clean(text string, steps []clean.Step) (string, *clean.TransformationMap) {
	if steps == nil {
		steps = clean.DefaultSteps()
	}
	return clean.Clean(text, steps)
}

// Tokenize runs the registry's patterns over already-cleaned text.
func (s *Service) Tokenize(cleanedText string) ([]tokenize.Token, []tokenize.Diagnostic) {
	return tokenize.Tokenize(cleanedText, s.patterns)
}

// ExtractCitations runs the full pipeline: clean, tokenize, dedup,
// detect parallel citations, extract, and (when opts.Resolve is set)
// resolve short-form citations, populating Resolution on the result.
// models.ResolvedCitation is a type alias for models.Citation, so no
// separate return type is needed for the resolved case.
func (s *Service) ExtractCitations(text string, opts ExtractOptions) ExtractResult {
	cleanedText, tm := s.Clean(text, opts.CleanSteps)

	tokens, tokDiags := s.Tokenize(cleanedText)
	deduped := dedup.Dedup(tokens)

	parallelCfg := parallel.Config{MaxGapChars: s.scoring.ParallelMaxGapChars}
	groups, _ := parallel.Detect(deduped, cleanedText, parallelCfg)

	var result ExtractResult
	for _, d := range tokDiags {
		result.Diagnostics = append(result.Diagnostics, d.Err)
	}

	citations := make([]models.Citation, 0, len(deduped))
	indexByTokenStart := make(map[int]int, len(deduped))
	for _, tok := range deduped {
		c, err := s.extractor.Extract(tok, cleanedText, tm)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, err)
			continue
		}
		indexByTokenStart[tok.CleanStart] = len(citations)
		citations = append(citations, *c)
	}

	attachParallelGroups(citations, indexByTokenStart, groups)

	if opts.Resolve {
		resolved, diags := s.resolver.Resolve(citations, opts.Scopes)
		citations = resolved
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	result.Citations = citations
	return result
}

// attachParallelGroups assigns a shared GroupID to every member of each
// parallel group (primary and each secondary) and records each
// secondary's volume/reporter/page/text/span on the primary's
// ParallelCitations. Every group member, including secondaries, stays
// in citations as its own entry; only the primary additionally carries
// ParallelCitations.
func attachParallelGroups(citations []models.Citation, indexByTokenStart map[int]int, groups []parallel.Group) {
	for _, g := range groups {
		primaryIdx, ok := indexByTokenStart[g.Primary.CleanStart]
		if !ok {
			continue
		}
		primary := &citations[primaryIdx]
		groupID := parallel.GroupID(primary.Volume, primary.Reporter, primary.Page)
		primary.GroupID = groupID

		for _, sec := range g.Secondaries {
			secIdx, ok := indexByTokenStart[sec.CleanStart]
			if !ok {
				continue
			}
			secondary := &citations[secIdx]
			secondary.GroupID = groupID
			primary.ParallelCitations = append(primary.ParallelCitations, models.ParallelCitation{
				Volume:   secondary.Volume,
				Reporter: secondary.Reporter,
				Page:     secondary.Page,
				Text:     secondary.Text,
				Span:     secondary.Span,
			})
		}
	}
}

// ResolveCitations is a standalone entry point that resolves
// short-form citations over an already-extracted citation list.
func (s *Service) ResolveCitations(citations []models.Citation, scopes *resolve.ScopeMap) ([]models.Citation, []*citelinkerrors.CitelinkError) {
	return s.resolver.Resolve(citations, scopes)
}

// Annotate wraps each citation's span in text with the configured
// before/after markup.
func (s *Service) Annotate(text string, citations []models.Citation, opts annotate.Options) annotate.Result {
	return annotate.Annotate(text, citations, opts)
}

// ExtractCitationsAsync wraps the synchronous call in a goroutine with
// no interleaving between documents. The channel-based future here is
// the in-process analog; internal/async provides the durable, queued
// version used by the HTTP surface.
func (s *Service) ExtractCitationsAsync(ctx context.Context, text string, opts ExtractOptions) <-chan ExtractResult {
	out := make(chan ExtractResult, 1)
	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
			out <- ExtractResult{}
		default:
			out <- s.ExtractCitations(text, opts)
		}
	}()
	return out
}
