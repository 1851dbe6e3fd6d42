// Package annotate implements the Annotator: splicing wrapper markup
// around citation spans in a text, snapping spans out of enclosing
// HTML tags, and recording where each wrapper landed. Tag boundaries
// are found by scanning for the nearest "<" and ">" bytes around an
// offset; no HTML parser is involved.
package annotate

import (
	"sort"
	"strings"

	"github.com/citelink/citelink/pkg/models"
)

// Template wraps a citation's matched substring in fixed before/after
// markup.
type Template struct {
	Before string
	After  string
}

// Callback receives a citation and ±30 characters of surrounding
// context and returns the verbatim replacement text.
type Callback func(c models.Citation, context string) string

// Options configures one annotation pass.
type Options struct {
	UseCleanText bool
	// AutoEscape applies only when Template or Callback is set: output
	// is then escaped only if AutoEscape is true, so the zero value
	// leaves it unescaped. With neither set, output is always escaped.
	AutoEscape   bool
	Template     *Template
	Callback     Callback
}

// Result is the Annotator's output: the annotated string, a map from
// each emitted wrapper's start offset in the input text to its start
// offset in the output text, and the list of citation indices that
// could not be annotated.
type Result struct {
	Text        string
	PositionMap map[int]int
	Skipped     []int
}

const contextRadius = 30

// Annotate sorts citations back-to-front by the chosen start offset,
// snaps each span out of any enclosing HTML tag, builds the wrapper,
// and splices it in.
func Annotate(text string, citations []models.Citation, opts Options) Result {
	autoEscape := opts.AutoEscape
	if opts.Template == nil && opts.Callback == nil {
		autoEscape = true
	}

	type indexed struct {
		idx int
		c   models.Citation
	}
	ordered := make([]indexed, len(citations))
	for i, c := range citations {
		ordered[i] = indexed{idx: i, c: c}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return startOf(ordered[i].c, opts.UseCleanText) > startOf(ordered[j].c, opts.UseCleanText)
	})

	out := text
	positionMap := make(map[int]int)
	var skipped []int

	for _, item := range ordered {
		c := item.c
		start, end := spanOf(c, opts.UseCleanText)
		if start < 0 || end > len(out) || start > end {
			skipped = append(skipped, item.idx)
			continue
		}

		if !opts.UseCleanText {
			var ok bool
			start, end, ok = snapOutOfTag(out, start, end)
			if !ok {
				skipped = append(skipped, item.idx)
				continue
			}
		}

		substring := out[start:end]
		wrapper := buildWrapper(c, substring, out, start, end, opts, autoEscape)

		out = out[:start] + wrapper + out[end:]
		growth := len(wrapper) - (end - start)
		for k := range positionMap {
			positionMap[k] += growth
		}
		positionMap[start] = start
	}

	return Result{Text: out, PositionMap: positionMap, Skipped: skipped}
}

func startOf(c models.Citation, useCleanText bool) int {
	if useCleanText {
		return c.Span.CleanStart
	}
	return c.Span.OriginalStart
}

func spanOf(c models.Citation, useCleanText bool) (int, int) {
	if useCleanText {
		return c.Span.CleanStart, c.Span.CleanEnd
	}
	return c.Span.OriginalStart, c.Span.OriginalEnd
}

func buildWrapper(c models.Citation, substring, fullText string, start, end int, opts Options, autoEscape bool) string {
	if opts.Callback != nil {
		ctxStart := start - contextRadius
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := end + contextRadius
		if ctxEnd > len(fullText) {
			ctxEnd = len(fullText)
		}
		context := fullText[ctxStart:ctxEnd]
		return opts.Callback(c, context)
	}

	body := substring
	if autoEscape {
		body = escape(body)
	}
	if opts.Template == nil {
		return body
	}
	return opts.Template.Before + body + opts.Template.After
}

var escapeReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#47;",
)

// escape replaces & < > " ' / with their named/numeric entities.
func escape(s string) string {
	return escapeReplacer.Replace(s)
}

// snapOutOfTag: if start lies between an unmatched "<" and its
// closing ">", move start to the "<"; if end lies inside a tag, move
// end past the ">". If snapping collapses the range to empty, the
// caller records an AnnotationSnapFailure and skips the citation.
func snapOutOfTag(text string, start, end int) (int, int, bool) {
	newStart := start
	if tagStart, inside := findEnclosingTagStart(text, start); inside {
		newStart = tagStart
	}

	newEnd := end
	if tagEnd, inside := findEnclosingTagEnd(text, end); inside {
		newEnd = tagEnd
	}

	if newStart >= newEnd {
		return 0, 0, false
	}
	return newStart, newEnd, true
}

// findEnclosingTagStart reports whether offset lies strictly between
// an unmatched "<" before it and the next ">", and if so returns the
// offset of that "<".
func findEnclosingTagStart(text string, offset int) (int, bool) {
	lt := strings.LastIndexByte(text[:offset], '<')
	if lt == -1 {
		return 0, false
	}
	gt := strings.IndexByte(text[lt:], '>')
	if gt == -1 {
		return 0, false
	}
	gtAbs := lt + gt
	if gtAbs < offset {
		return 0, false
	}
	return lt, true
}

// findEnclosingTagEnd reports whether offset lies strictly inside a
// tag (after an unmatched "<" and before the matching ">"), and if so
// returns the offset just past that ">".
func findEnclosingTagEnd(text string, offset int) (int, bool) {
	lt := strings.LastIndexByte(text[:offset], '<')
	if lt == -1 {
		return 0, false
	}
	gt := strings.IndexByte(text[lt:], '>')
	if gt == -1 {
		return 0, false
	}
	gtAbs := lt + gt
	if gtAbs < offset {
		return 0, false
	}
	return gtAbs + 1, true
}
