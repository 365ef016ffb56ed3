// Package tui renders a search session with Bubble Tea and feeds it keys.
package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexandro/quickfind/opener"
	"github.com/lexandro/quickfind/session"
)

// TickInterval is the redraw period.
const TickInterval = 250 * time.Millisecond

// Options configures the presentation.
type Options struct {
	HighlightColor string
	Editor         string
	Logger         *slog.Logger
}

type tickMsg time.Time

type editDoneMsg struct {
	path string
	err  error
}

// Model adapts a session to the Bubble Tea program loop.
type Model struct {
	session   *session.Session
	styles    Styles
	keys      keyMap
	logger    *slog.Logger
	newEditor func(path string) tea.ExecCommand

	width  int
	height int
	offset int // first visible result
}

// New builds the model for s.
func New(s *session.Session, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := opts.HighlightColor
	if name == "" {
		name = DefaultHighlightColor
	}
	color, ok := ParseColor(name)
	if !ok {
		logger.Warn("unknown highlight color, using default", "color", name, "suggestion", SuggestColor(name))
		color, _ = ParseColor(DefaultHighlightColor)
	}

	preferred := opts.Editor
	return Model{
		session: s,
		styles:  NewStyles(color),
		keys:    defaultKeyMap(),
		logger:  logger,
		newEditor: func(path string) tea.ExecCommand {
			return opener.NewEditorChain(preferred, path)
		},
	}
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		cmd = tick()

	case editDoneMsg:
		m.session.EditFinished(msg.path, msg.err)

	case tea.KeyMsg:
		k, ok := m.keys.translate(msg)
		if !ok {
			return m, nil
		}
		effect := m.session.HandleKey(k)
		switch effect.Action {
		case session.ActionQuit:
			return m, tea.Quit
		case session.ActionEdit:
			cmd = m.edit(effect.Path)
		}
	}

	m.adjustViewport()
	return m, cmd
}

// edit suspends the program, runs the editor chain and resumes; tea.Exec
// restores the terminal whether or not an editor could be launched.
func (m Model) edit(path string) tea.Cmd {
	m.logger.Debug("launching editor", "path", path)
	return tea.Exec(m.newEditor(path), func(err error) tea.Msg {
		return editDoneMsg{path: path, err: err}
	})
}

// adjustViewport keeps the selected result inside the visible window.
func (m *Model) adjustViewport() {
	height := m.listHeight()
	selected := m.session.Selected()

	if height <= 0 {
		m.offset = 0
		return
	}
	if selected < m.offset {
		m.offset = selected
	} else if selected >= m.offset+height {
		m.offset = selected - height + 1
	}
	if last := len(m.session.Results()) - height; m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Run starts the interactive program in the alternate screen and blocks
// until the user quits.
func Run(s *session.Session, opts Options) error {
	p := tea.NewProgram(New(s, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
