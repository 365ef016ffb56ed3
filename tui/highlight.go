package tui

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/lexandro/quickfind/index"
)

// Span is a highlighted byte range [Start, End) of a string.
type Span struct {
	Start, End int
}

// Spans finds every case-insensitive occurrence of each word in text.
// Overlapping occurrences are resolved by earliest start, then longest span.
// Matching uses the index's case folding, so a span may differ in length from
// its word ("STRASSE" for "straße"). Offsets are bytes of text; bytes that are
// not valid UTF-8 are kept as they are.
func Spans(text string, words []string) []Span {
	// starts and ends map rune boundaries of the folded text back to text.
	var folded strings.Builder
	starts := make(map[int]int)
	ends := make(map[int]int)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		piece := text[i : i+size]
		if r != utf8.RuneError || size > 1 {
			piece = index.Fold(piece)
		}
		starts[folded.Len()] = i
		folded.WriteString(piece)
		i += size
		ends[folded.Len()] = i
	}
	haystack := folded.String()

	var candidates []Span
	for _, word := range words {
		w := index.Fold(word)
		if w == "" {
			continue
		}
		for from := 0; from+len(w) <= len(haystack); {
			k := strings.Index(haystack[from:], w)
			if k < 0 {
				break
			}
			k += from
			start, okStart := starts[k]
			end, okEnd := ends[k+len(w)]
			if okStart && okEnd {
				candidates = append(candidates, Span{Start: start, End: end})
			}
			from = k + 1
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	var spans []Span
	last := 0
	for _, c := range candidates {
		if c.Start < last {
			continue
		}
		spans = append(spans, c)
		last = c.End
	}
	return spans
}

// renderHighlighted styles the spans of text with hl and the rest with base.
func renderHighlighted(text string, spans []Span, base, hl lipgloss.Style) string {
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			b.WriteString(base.Render(text[pos:s.Start]))
		}
		b.WriteString(hl.Render(text[s.Start:s.End]))
		pos = s.End
	}
	if pos < len(text) {
		b.WriteString(base.Render(text[pos:]))
	}
	return b.String()
}
