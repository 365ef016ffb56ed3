package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexandro/quickfind/session"
)

// keyMap binds terminal keys to session keys. The action bindings are
// only used for the status line hints; the session interprets the runes.
type keyMap struct {
	Backspace key.Binding
	Delete    key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Tab       key.Binding
	Esc       key.Binding
	Quit      key.Binding
	History   key.Binding

	Open   key.Binding
	Edit   key.Binding
	Reveal key.Binding
	Use    key.Binding
	Remove key.Binding
	Clear  key.Binding
	Yes    key.Binding
	No     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Backspace: key.NewBinding(key.WithKeys("backspace")),
		Delete:    key.NewBinding(key.WithKeys("delete")),
		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "results"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open first"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit"),
		),
		Quit: key.NewBinding(key.WithKeys("ctrl+c")),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "history"),
		),

		Open:   key.NewBinding(key.WithHelp("enter/o", "open")),
		Edit:   key.NewBinding(key.WithHelp("v/e", "edit")),
		Reveal: key.NewBinding(key.WithHelp("d", "open dir")),
		Use:    key.NewBinding(key.WithHelp("enter", "use")),
		Remove: key.NewBinding(key.WithHelp("d", "delete")),
		Clear:  key.NewBinding(key.WithHelp("del", "clear all")),
		Yes:    key.NewBinding(key.WithHelp("y", "yes")),
		No:     key.NewBinding(key.WithHelp("n/esc", "no")),
	}
}

// translate converts a terminal key into a session key.
func (k keyMap) translate(msg tea.KeyMsg) (session.Key, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return session.Key{}, false
		}
		return session.Key{Type: session.KeyRune, Runes: msg.Runes}, true
	case tea.KeySpace:
		return session.Runes(" "), true
	}

	bindings := []struct {
		binding key.Binding
		key     session.KeyType
	}{
		{k.Backspace, session.KeyBackspace},
		{k.Delete, session.KeyDelete},
		{k.Left, session.KeyLeft},
		{k.Right, session.KeyRight},
		{k.Home, session.KeyHome},
		{k.End, session.KeyEnd},
		{k.Up, session.KeyUp},
		{k.Down, session.KeyDown},
		{k.Enter, session.KeyEnter},
		{k.Tab, session.KeyTab},
		{k.Esc, session.KeyEsc},
		{k.Quit, session.KeyCtrlC},
		{k.History, session.KeyHistory},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return session.Press(b.key), true
		}
	}
	return session.Key{}, false
}

// hints returns the bindings shown in the status line for a focus mode.
func (k keyMap) hints(focus session.Focus) []key.Binding {
	switch focus {
	case session.FocusResults:
		up := k.Up
		up.SetHelp("↑/↓", "move")
		return []key.Binding{up, k.Open, k.Edit, k.Reveal, k.Tab, k.Esc}
	case session.FocusHistory:
		up := k.Up
		up.SetHelp("↑/↓", "move")
		esc := k.Esc
		esc.SetHelp("esc", "close")
		return []key.Binding{up, k.Use, k.Remove, k.Clear, esc}
	case session.FocusConfirmClear:
		return []key.Binding{k.Yes, k.No}
	default:
		return []key.Binding{k.Enter, k.Down, k.History, k.Esc}
	}
}
