package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lexandro/quickfind/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	searchPrompt  = "Search: "
	searchBoxRows = 3 // input line plus top and bottom border
	footerRows    = 2 // status line and error line
	maxModalWidth = 70
)

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) listHeight() int {
	_, h := m.size()
	return h - searchBoxRows - footerRows
}

// View renders the whole frame from the session state.
func (m Model) View() string {
	width, _ := m.size()
	s := m.session

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.viewSearchBox(width),
		m.viewResults(width),
		m.viewStatus(width),
		m.viewError(width),
	)

	switch s.Focus() {
	case session.FocusHistory:
		return overlay(base, m.viewHistoryModal(width), width)
	case session.FocusConfirmClear:
		return overlay(base, m.viewConfirmModal(width), width)
	}
	return base
}

func (m Model) viewSearchBox(width int) string {
	style := m.styles.SearchBox
	if m.session.Focus() == session.FocusSearch {
		style = m.styles.SearchFocused
	}
	inner := width - 4 // border and padding
	input := renderInput([]rune(m.session.Input()), m.session.Cursor(), inner-len(searchPrompt),
		m.session.Focus() == session.FocusSearch, m.styles.Cursor)
	return style.Width(width - 2).Render(searchPrompt + input)
}

// renderInput shows the part of the input around the cursor that fits in
// width cells, with the cursor drawn as a reversed cell.
func renderInput(runes []rune, cursor, width int, showCursor bool, cursorStyle lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	start := 0
	for start < cursor && runewidth.StringWidth(string(runes[start:cursor]))+1 > width {
		start++
	}

	before := string(runes[start:cursor])
	at := " "
	var after string
	if cursor < len(runes) {
		at = string(runes[cursor])
		after = string(runes[cursor+1:])
	}
	room := width - runewidth.StringWidth(before) - runewidth.StringWidth(at)
	after = runewidth.Truncate(after, max(room, 0), "")

	if !showCursor {
		return before + strings.TrimRight(at, " ") + after
	}
	return before + cursorStyle.Render(at) + after
}

func (m Model) viewResults(width int) string {
	height := m.listHeight()
	if height <= 0 {
		return ""
	}

	s := m.session
	results := s.Results()
	words := s.Words()
	focused := s.Focus() == session.FocusResults

	selectedHL := m.styles.Highlight.Background(m.styles.Selected.GetBackground())

	lines := make([]string, 0, height)
	for i := m.offset; i < len(results) && len(lines) < height; i++ {
		text := runewidth.Truncate(results[i], width-2, "…")
		spans := Spans(text, words)
		if focused && i == s.Selected() {
			lines = append(lines, m.styles.Selected.Render("> ")+
				renderHighlighted(text, spans, m.styles.Selected, selectedHL))
			continue
		}
		lines = append(lines, "  "+renderHighlighted(text, spans, m.styles.Item, m.styles.Highlight))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStatus(width int) string {
	s := m.session
	current := 0
	if len(s.Results()) > 0 {
		current = s.Selected() + 1
	}
	status := fmt.Sprintf("%d/%d items", current, len(s.Results()))
	if hints := helpLine(m.keys.hints(s.Focus())); hints != "" {
		status += "  " + hints
	}
	return m.styles.Status.Render(runewidth.Truncate(status, width, "…"))
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m Model) viewError(width int) string {
	msg := m.session.Err()
	if msg == "" {
		return ""
	}
	return m.styles.Error.Render(runewidth.Truncate(msg, width, "…"))
}

func modalWidth(width int) int {
	return min(maxModalWidth, width-4)
}

func (m Model) viewHistoryModal(width int) string {
	w := modalWidth(width)
	inner := w - 2 // padding

	lines := []string{m.styles.ModalTitle.Render("Search history"), ""}
	history := m.session.History()
	if len(history) == 0 {
		lines = append(lines, "No history yet")
	}
	for i, entry := range history {
		text := runewidth.Truncate(entry.Term, inner-2, "…")
		if i == m.session.HistorySelected() {
			lines = append(lines, m.styles.ModalSelected.Render("> "+text))
			continue
		}
		lines = append(lines, "  "+text)
	}
	return m.styles.Modal.Width(w).Render(strings.Join(lines, "\n"))
}

func (m Model) viewConfirmModal(width int) string {
	w := modalWidth(width)
	content := m.styles.ModalTitle.Render("Clear all search history?") + "\n\n" + "Press y to confirm, n to cancel"
	return m.styles.Modal.Width(w).Render(content)
}

// overlay replaces the vertically centred lines of base with the modal,
// each modal line centred horizontally.
func overlay(base, modal string, width int) string {
	lines := strings.Split(base, "\n")
	modalLines := strings.Split(modal, "\n")

	top := (len(lines) - len(modalLines)) / 2
	if top < 0 {
		top = 0
	}
	for i, ml := range modalLines {
		if top+i >= len(lines) {
			lines = append(lines, "")
		}
		lines[top+i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, ml)
	}
	return strings.Join(lines, "\n")
}
