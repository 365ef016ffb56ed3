package tui

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// DefaultHighlightColor is used when no colour is configured.
const DefaultHighlightColor = "darkgray"

var colorNames = map[string]int{
	"black":        0,
	"red":          1,
	"green":        2,
	"yellow":       3,
	"blue":         4,
	"magenta":      5,
	"cyan":         6,
	"gray":         7,
	"grey":         7,
	"darkgray":     8,
	"darkgrey":     8,
	"lightred":     9,
	"lightgreen":   10,
	"lightyellow":  11,
	"lightblue":    12,
	"lightmagenta": 13,
	"lightcyan":    14,
	"white":        15,
}

// ParseColor maps a named colour to its ANSI index. Names are matched
// case-insensitively and may contain spaces, dashes or underscores.
func ParseColor(name string) (lipgloss.Color, bool) {
	n, ok := colorNames[normalizeColor(name)]
	if !ok {
		return "", false
	}
	return lipgloss.Color(strconv.Itoa(n)), true
}

// SuggestColor returns the known colour name closest to a misspelled one,
// or "" when nothing is within three edits.
func SuggestColor(name string) string {
	normalized := []rune(normalizeColor(name))
	names := make([]string, 0, len(colorNames))
	for known := range colorNames {
		names = append(names, known)
	}
	sort.Strings(names)

	best, bestDistance := "", 4
	for _, known := range names {
		d := levenshtein.DistanceForStrings(normalized, []rune(known), levenshtein.DefaultOptions)
		if d < bestDistance {
			best, bestDistance = known, d
		}
	}
	return best
}

func normalizeColor(name string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
}

// Styles holds every style the view uses.
type Styles struct {
	SearchBox     lipgloss.Style
	SearchFocused lipgloss.Style
	Cursor        lipgloss.Style
	Item          lipgloss.Style
	Selected      lipgloss.Style
	Highlight     lipgloss.Style
	Status        lipgloss.Style
	Error         lipgloss.Style
	Modal         lipgloss.Style
	ModalTitle    lipgloss.Style
	ModalSelected lipgloss.Style
}

// NewStyles builds the styles with the given highlight colour.
func NewStyles(highlight lipgloss.Color) Styles {
	return Styles{
		SearchBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		SearchFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Item:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236")),
		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1),
		ModalTitle:    lipgloss.NewStyle().Bold(true),
		ModalSelected: lipgloss.NewStyle().Reverse(true),
	}
}
