// Package clean implements the text-cleaning stage of the citation
// pipeline: HTML stripping, whitespace collapsing, and a handful of
// Unicode normalizations, all tracked through a bidirectional
// TransformationMap so downstream spans can be translated back to the
// original text.
package clean

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/citelink/citelink/pkg/models"
)

// Step names one cleaning transformation. Steps run in the order
// listed in Clean's steps argument.
type Step string

const (
	StepStripHTML        Step = "stripHTML"
	StepCollapseWhitespace Step = "collapseWhitespace"
	StepNormalizeSection Step = "normalizeSection"
	StepNormalizeQuotes  Step = "normalizeQuotes"
)

// DefaultSteps is the full cleaning pipeline most callers want.
func DefaultSteps() []Step {
	return []Step{StepStripHTML, StepNormalizeSection, StepNormalizeQuotes, StepCollapseWhitespace}
}

// Anchor is one entry in a TransformationMap: cleaned offset
// CleanOffset corresponds to original offset OrigOffset.
type Anchor struct {
	CleanOffset int
	OrigOffset  int
}

// TransformationMap maps cleaned-text offsets back to original-text
// offsets. Anchors are monotonically nondecreasing in both fields.
// Offsets past the last anchor fall through to
// anchors[last].OrigOffset + (cleanOffset - anchors[last].CleanOffset).
type TransformationMap struct {
	anchors []Anchor
}

// NewIdentityMap builds a transformation map for text that underwent
// no transformation: cleanOffset == origOffset everywhere.
func NewIdentityMap() *TransformationMap {
	return &TransformationMap{anchors: []Anchor{{CleanOffset: 0, OrigOffset: 0}}}
}

// ToOriginal translates a cleaned-text offset to an original-text
// offset.
func (m *TransformationMap) ToOriginal(cleanOffset int) int {
	if len(m.anchors) == 0 {
		return cleanOffset
	}
	// anchors are sorted by CleanOffset; find the last anchor at or
	// before cleanOffset.
	lo, hi := 0, len(m.anchors)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if m.anchors[mid].CleanOffset <= cleanOffset {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	a := m.anchors[best]
	return a.OrigOffset + (cleanOffset - a.CleanOffset)
}

// Span translates a (cleanStart, cleanEnd) pair into a full models.Span.
func (m *TransformationMap) Span(cleanStart, cleanEnd int) models.Span {
	return models.Span{
		CleanStart:    cleanStart,
		CleanEnd:      cleanEnd,
		OriginalStart: m.ToOriginal(cleanStart),
		OriginalEnd:   m.ToOriginal(cleanEnd),
	}
}

// IsMonotonic reports whether the map's anchors are nondecreasing in
// both fields. Used by callers enforcing the InvariantViolation fatal
// check.
func (m *TransformationMap) IsMonotonic() bool {
	for i := 1; i < len(m.anchors); i++ {
		if m.anchors[i].CleanOffset < m.anchors[i-1].CleanOffset {
			return false
		}
		if m.anchors[i].OrigOffset < m.anchors[i-1].OrigOffset {
			return false
		}
	}
	return true
}

type builder struct {
	orig    string
	out     strings.Builder
	anchors []Anchor
	lastC   int
	lastO   int
}

func newBuilder(orig string) *builder {
	b := &builder{orig: orig}
	b.anchors = append(b.anchors, Anchor{0, 0})
	return b
}

// emit appends cleaned text cleanedChunk that corresponds to
// orig[origStart:origEnd], recording a new anchor only when the
// mapping stops being an identity shift from the previous anchor.
func (b *builder) emit(cleanedChunk string, origStart, origEnd int) {
	cleanOffset := b.out.Len()
	b.out.WriteString(cleanedChunk)
	lastAnchor := b.anchors[len(b.anchors)-1]
	expectedOrig := lastAnchor.OrigOffset + (cleanOffset - lastAnchor.CleanOffset)
	if expectedOrig != origStart {
		b.anchors = append(b.anchors, Anchor{CleanOffset: cleanOffset, OrigOffset: origStart})
	}
}

func (b *builder) result() (string, *TransformationMap) {
	return b.out.String(), &TransformationMap{anchors: b.anchors}
}

// Clean runs the requested steps over text and returns the cleaned
// text plus the transformation map back to the original. An empty
// steps slice is identity: cleanedText == text.
func Clean(text string, steps []Step) (string, *TransformationMap) {
	if len(steps) == 0 {
		return text, NewIdentityMap()
	}

	current := text
	tm := NewIdentityMap()

	for _, step := range steps {
		var next string
		var nextMap *TransformationMap
		switch step {
		case StepStripHTML:
			next, nextMap = stripHTML(current)
		case StepNormalizeSection:
			next, nextMap = normalizeRunes(current, sectionReplacements)
		case StepNormalizeQuotes:
			next, nextMap = normalizeRunes(current, quoteReplacements)
		case StepCollapseWhitespace:
			next, nextMap = collapseWhitespace(current)
		default:
			continue
		}
		tm = compose(tm, nextMap)
		current = next
	}

	return current, tm
}

// compose builds the transformation map from the very original text
// to the latest cleaned text, given the map from original to an
// intermediate stage (outer) and the map from that intermediate stage
// to the new cleaned text (inner).
func compose(outer, inner *TransformationMap) *TransformationMap {
	anchors := make([]Anchor, 0, len(inner.anchors))
	for _, a := range inner.anchors {
		anchors = append(anchors, Anchor{CleanOffset: a.CleanOffset, OrigOffset: outer.ToOriginal(a.OrigOffset)})
	}
	if len(anchors) == 0 {
		anchors = append(anchors, Anchor{0, 0})
	}
	return &TransformationMap{anchors: anchors}
}

// sectionReplacements is the table for StepNormalizeSection. It keeps
// the canonical U+00A7 (§) as is and maps the small colon U+FE55 to
// ':'; no other character is rewritten to §.
var sectionReplacements = map[rune]string{
	'§': "§", // canonical form, kept so the table is a complete identity+variant set
	'﹕': ":", // small colon variant occasionally found adjacent to § in scanned text
}

var quoteReplacements = map[rune]string{
	'‘': "'", '’': "'", '‛': "'",
	'“': "\"", '”': "\"", '‟': "\"",
}

// normalizeRunes rewrites individual runes per table, one rune at a
// time, emitting an anchor at each non-identity substitution so the
// transformation map stays exact.
func normalizeRunes(text string, table map[rune]string) (string, *TransformationMap) {
	b := newBuilder(text)
	i := 0
	for _, r := range text {
		width := len(string(r))
		if repl, ok := table[r]; ok {
			b.emit(repl, i, i+width)
		} else {
			b.emit(string(r), i, i+width)
		}
		i += width
	}
	return b.result()
}

// collapseWhitespace collapses runs of whitespace (space, tab,
// newline) to a single space, trimming leading/trailing whitespace.
func collapseWhitespace(text string) (string, *TransformationMap) {
	b := newBuilder(text)
	i := 0
	inRun := false
	runStart := 0
	n := len(text)
	for i < n {
		r := rune(text[i])
		if isSpace(r) {
			if !inRun {
				inRun = true
				runStart = i
			}
			i++
			continue
		}
		if inRun {
			b.emit(" ", runStart, i)
			inRun = false
		}
		b.emit(string(r), i, i+1)
		i++
	}
	if inRun {
		b.emit("", runStart, n)
	}
	out, tm := b.result()
	return strings.TrimSpace(out), trimMap(tm, out)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// trimMap adjusts a transformation map after TrimSpace removed leading
// whitespace from untrimmed, shifting all clean offsets down by the
// number of leading bytes trimmed.
func trimMap(tm *TransformationMap, untrimmed string) *TransformationMap {
	leading := len(untrimmed) - len(strings.TrimLeft(untrimmed, " "))
	if leading == 0 {
		return tm
	}
	anchors := make([]Anchor, 0, len(tm.anchors))
	for _, a := range tm.anchors {
		shifted := a.CleanOffset - leading
		if shifted < 0 {
			shifted = 0
		}
		anchors = append(anchors, Anchor{CleanOffset: shifted, OrigOffset: a.OrigOffset})
	}
	return &TransformationMap{anchors: anchors}
}

// stripHTML removes HTML tags using golang.org/x/net/html's
// tokenizer (the same library PuerkitoBio/goquery wraps), keeping
// only text-node content; emit records an anchor at a text node's
// start whenever removed markup has shifted the mapping, so the
// mapping survives arbitrary tag removal.
func stripHTML(text string) (string, *TransformationMap) {
	b := newBuilder(text)
	z := html.NewTokenizer(strings.NewReader(text))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())
		switch tt {
		case html.TextToken:
			b.emit(raw, offset, offset+len(raw))
		default:
			// tags, comments, doctypes: contribute no cleaned text.
		}
		offset += len(raw)
	}
	return b.result()
}
