package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func Test_Spans_AllOccurrences(t *testing.T) {
	spans := Spans("foobarfoo", []string{"foo"})

	assert.Equal(t, []Span{{0, 3}, {6, 9}}, spans)
}

func Test_Spans_CaseInsensitive(t *testing.T) {
	assert.Equal(t, []Span{{3, 6}}, Spans("/a/FoO.txt", []string{"foo"}))
	assert.Equal(t, []Span{{0, 3}}, Spans("FOO", []string{"Foo"}))
}

func Test_Spans_MultipleWords(t *testing.T) {
	spans := Spans("/a/Foobaz/bar.txt", []string{"foo", "bar"})

	assert.Equal(t, []Span{{3, 6}, {10, 13}}, spans)
}

func Test_Spans_OverlapPrefersEarliestThenLongest(t *testing.T) {
	// "foob" and "foo" both start at 0: the longer wins; "oba" starts inside it.
	spans := Spans("foobar", []string{"foo", "foob", "oba", "ar"})

	assert.Equal(t, []Span{{0, 4}, {4, 6}}, spans)
}

func Test_Spans_SelfOverlappingWord(t *testing.T) {
	assert.Equal(t, []Span{{0, 2}, {2, 4}}, Spans("aaaaa", []string{"aa"}))
}

func Test_Spans_MultibyteOffsets(t *testing.T) {
	text := "/Übersicht/über.pdf"
	spans := Spans(text, []string{"über"})

	assert.Equal(t, []Span{{1, 6}, {12, 17}}, spans)
	assert.Equal(t, "Über", text[1:6])
	assert.Equal(t, "über", text[12:17])
}

func Test_Spans_InvalidUTF8KeepsByteOffsets(t *testing.T) {
	text := "/d/\xff\xff/foo"
	spans := Spans(text, []string{"foo"})

	assert.Equal(t, []Span{{6, 9}}, spans)
	assert.Equal(t, "foo", text[6:9])
}

func Test_Spans_FoldedLengthsDiffer(t *testing.T) {
	assert.Equal(t, []Span{{1, 8}}, Spans("/STRASSE.txt", []string{"straße"}))

	text := "/Straße.txt"
	spans := Spans(text, []string{"strasse"})
	assert.Equal(t, []Span{{1, 8}}, spans)
	assert.Equal(t, "Straße", text[1:8])

	// A match that ends inside a folded character is not a span.
	assert.Empty(t, Spans("/Straße.txt", []string{"stras"}))
}

func Test_Spans_NoWords(t *testing.T) {
	assert.Empty(t, Spans("foo", nil))
	assert.Empty(t, Spans("foo", []string{""}))
	assert.Empty(t, Spans("", []string{"foo"}))
}

func Test_renderHighlighted_KeepsUnstyledText(t *testing.T) {
	plain := lipgloss.NewStyle()

	out := renderHighlighted("foobarfoo", Spans("foobarfoo", []string{"foo"}), plain, plain)

	assert.Equal(t, "foobarfoo", out)
}

func Test_SuggestColor(t *testing.T) {
	assert.Equal(t, "yellow", SuggestColor("yelow"))
	assert.Equal(t, "lightblue", SuggestColor("Light Blu"))
	assert.Equal(t, "", SuggestColor("chartreuse"))
}

func Test_ParseColor(t *testing.T) {
	tests := []struct {
		name string
		want lipgloss.Color
		ok   bool
	}{
		{"black", "0", true},
		{"Yellow", "3", true},
		{"dark gray", "8", true},
		{"light-cyan", "14", true},
		{"white", "15", true},
		{"chartreuse", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseColor(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
