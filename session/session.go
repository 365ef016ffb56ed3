// Package session holds the state of one interactive search and the key
// transitions between its focus modes. Rendering lives in package tui.
package session

import (
	"log/slog"
	"strings"

	"github.com/lexandro/quickfind/index"
)

// Focus is the region receiving keyboard input.
type Focus int

const (
	FocusSearch Focus = iota
	FocusResults
	FocusHistory
	FocusConfirmClear
)

func (f Focus) String() string {
	switch f {
	case FocusSearch:
		return "search"
	case FocusResults:
		return "results"
	case FocusHistory:
		return "history"
	case FocusConfirmClear:
		return "confirm-clear"
	default:
		return "unknown"
	}
}

// Action is what the caller must do after a key was handled.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	// ActionEdit asks the caller to suspend the terminal, run the editor on
	// Effect.Path and report back through EditFinished.
	ActionEdit
)

// Effect is the outcome of HandleKey.
type Effect struct {
	Action Action
	Path   string
}

// Store is the part of the index the session uses.
type Store interface {
	Query(term string) ([]string, error)
	AddHistory(term string) error
	History(limit int) ([]index.HistoryEntry, error)
	DeleteHistory(term string) error
	ClearHistory() error
}

// Opener launches paths in external applications.
type Opener interface {
	Open(path string) error
	Reveal(path string) error
}

// Session is the transient state of one interactive run.
type Session struct {
	store  Store
	opener Opener
	logger *slog.Logger

	input    []rune
	cursor   int
	results  []string
	selected int
	focus    Focus
	errMsg   string

	history         []index.HistoryEntry
	historySelected int
}

// New starts a session seeded with initial. The cursor is placed after the
// seeded text and its results are computed right away.
func New(store Store, opener Opener, logger *slog.Logger, initial string) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		store:  store,
		opener: opener,
		logger: logger,
		input:  []rune(initial),
		focus:  FocusSearch,
	}
	s.cursor = len(s.input)
	s.requery()
	return s
}

func (s *Session) Input() string { return string(s.input) }
func (s *Session) Cursor() int { return s.cursor }
func (s *Session) Results() []string { return s.results }
func (s *Session) Selected() int { return s.selected }
func (s *Session) Focus() Focus { return s.focus }
func (s *Session) Err() string { return s.errMsg }
func (s *Session) HistorySelected() int { return s.historySelected }

func (s *Session) History() []index.HistoryEntry { return s.history }

// Words returns the case-folded search words used for highlighting. They
// are folded the same way the index matches them.
func (s *Session) Words() []string {
	return index.SplitWords(string(s.input))
}

// SelectedPath returns the highlighted result, if any.
func (s *Session) SelectedPath() (string, bool) {
	if s.selected < 0 || s.selected >= len(s.results) {
		return "", false
	}
	return s.results[s.selected], true
}

// HandleKey applies one key press. Ctrl+C quits from every mode.
func (s *Session) HandleKey(k Key) Effect {
	if k.Type == KeyCtrlC {
		return Effect{Action: ActionQuit}
	}
	switch s.focus {
	case FocusSearch:
		return s.handleSearch(k)
	case FocusResults:
		return s.handleResults(k)
	case FocusHistory:
		s.handleHistory(k)
	case FocusConfirmClear:
		s.handleConfirmClear(k)
	}
	return Effect{}
}

// EditFinished reports the outcome of an ActionEdit effect.
func (s *Session) EditFinished(path string, err error) {
	if err != nil {
		s.logger.Warn("failed to edit file", "path", path, "error", err)
		s.errMsg = "Error editing file: " + path
		return
	}
	s.recordHistory()
}

func (s *Session) handleSearch(k Key) Effect {
	switch k.Type {
	case KeyRune:
		s.insert(k.Runes)
	case KeyBackspace:
		if s.cursor > 0 {
			s.input = append(s.input[:s.cursor-1], s.input[s.cursor:]...)
			s.cursor--
			s.inputChanged()
		}
	case KeyDelete:
		if s.cursor < len(s.input) {
			s.input = append(s.input[:s.cursor], s.input[s.cursor+1:]...)
			s.inputChanged()
		}
	case KeyLeft:
		if s.cursor > 0 {
			s.cursor--
		}
	case KeyRight:
		if s.cursor < len(s.input) {
			s.cursor++
		}
	case KeyHome:
		s.cursor = 0
	case KeyEnd:
		s.cursor = len(s.input)
	case KeyEnter:
		if len(s.input) == 0 {
			break
		}
		s.requery()
		s.focus = FocusResults
		if len(s.results) > 0 {
			s.openSelected()
		}
	case KeyDown, KeyTab:
		if len(s.results) > 0 {
			s.focus = FocusResults
			s.selected = 0
		}
	case KeyHistory:
		s.openHistory()
	case KeyEsc:
		return Effect{Action: ActionQuit}
	}
	return Effect{}
}

func (s *Session) handleResults(k Key) Effect {
	n := len(s.results)
	switch {
	case k.Type == KeyDown:
		if n > 0 {
			s.selected = (s.selected + 1) % n
		}
	case k.Type == KeyUp:
		if s.selected <= 0 {
			s.selected = 0
			s.focus = FocusSearch
		} else {
			s.selected--
		}
	case k.Type == KeyEnter || k.is('o'):
		s.openSelected()
	case k.is('v', 'e'):
		if path, ok := s.SelectedPath(); ok {
			return Effect{Action: ActionEdit, Path: path}
		}
	case k.is('d'):
		s.revealSelected()
	case k.Type == KeyTab:
		s.focus = FocusSearch
	case k.Type == KeyEsc:
		return Effect{Action: ActionQuit}
	}
	return Effect{}
}

func (s *Session) handleHistory(k Key) {
	n := len(s.history)
	switch {
	case k.Type == KeyDown:
		if n > 0 {
			s.historySelected = (s.historySelected + 1) % n
		}
	case k.Type == KeyUp:
		if n > 0 {
			s.historySelected = (s.historySelected + n - 1) % n
		}
	case k.Type == KeyEnter:
		if s.historySelected < n {
			s.input = []rune(s.history[s.historySelected].Term)
			s.cursor = len(s.input)
			s.inputChanged()
		}
		s.focus = FocusSearch
	case k.is('d'):
		s.deleteSelectedHistory()
	case k.Type == KeyDelete:
		if n > 0 {
			s.focus = FocusConfirmClear
		}
	case k.Type == KeyEsc:
		s.focus = FocusSearch
	}
}

func (s *Session) handleConfirmClear(k Key) {
	switch {
	case k.is('y', 'Y'):
		if err := s.store.ClearHistory(); err != nil {
			s.logger.Warn("failed to clear history", "error", err)
			s.errMsg = "Error clearing history"
			s.focus = FocusHistory
			return
		}
		s.history = nil
		s.historySelected = 0
		s.focus = FocusSearch
	case k.is('n', 'N') || k.Type == KeyEsc:
		s.focus = FocusHistory
	}
}

func (s *Session) insert(runes []rune) {
	if len(runes) == 0 {
		return
	}
	tail := append([]rune(nil), s.input[s.cursor:]...)
	s.input = append(append(s.input[:s.cursor], runes...), tail...)
	s.cursor += len(runes)
	s.inputChanged()
}

// inputChanged re-runs the query and drops any pending error.
func (s *Session) inputChanged() {
	s.errMsg = ""
	s.requery()
}

func (s *Session) requery() {
	results, err := s.store.Query(string(s.input))
	if err != nil {
		s.logger.Error("query failed", "term", string(s.input), "error", err)
		results = nil
	}
	s.results = results
	s.selected = 0
}

func (s *Session) openSelected() {
	path, ok := s.SelectedPath()
	if !ok {
		return
	}
	if err := s.opener.Open(path); err != nil {
		s.logger.Warn("failed to open file", "path", path, "error", err)
		s.errMsg = "Error opening file: " + path
		return
	}
	s.recordHistory()
}

func (s *Session) revealSelected() {
	path, ok := s.SelectedPath()
	if !ok {
		return
	}
	if err := s.opener.Reveal(path); err != nil {
		s.logger.Warn("failed to open directory", "path", path, "error", err)
		s.errMsg = "Error opening directory of: " + path
	}
}

func (s *Session) recordHistory() {
	term := string(s.input)
	if strings.TrimSpace(term) == "" {
		return
	}
	if err := s.store.AddHistory(term); err != nil {
		s.logger.Warn("failed to record history", "term", term, "error", err)
	}
}

func (s *Session) openHistory() {
	s.loadHistory()
	s.historySelected = 0
	s.focus = FocusHistory
}

func (s *Session) loadHistory() {
	history, err := s.store.History(index.DefaultHistoryLimit)
	if err != nil {
		s.logger.Error("failed to load history", "error", err)
		history = nil
	}
	s.history = history
}

func (s *Session) deleteSelectedHistory() {
	if s.historySelected >= len(s.history) {
		return
	}
	term := s.history[s.historySelected].Term
	if err := s.store.DeleteHistory(term); err != nil {
		s.logger.Warn("failed to delete history entry", "term", term, "error", err)
		return
	}
	s.loadHistory()
	if s.historySelected >= len(s.history) && s.historySelected > 0 {
		s.historySelected = len(s.history) - 1
	}
}
