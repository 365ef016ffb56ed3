package opener

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// FallbackEditors are tried in order after the preferred editor.
var FallbackEditors = []string{"nvim", "vim", "vi", "nano"}

// ErrNoEditor is returned when every editor candidate failed.
var ErrNoEditor = errors.New("no editor could open the file")

// EditorChain runs the first editor that succeeds on a path. It implements
// the Bubble Tea ExecCommand interface, so the terminal is released before
// Run and restored after it whatever the outcome.
type EditorChain struct {
	Preferred string
	Path      string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	run    func(cmd *exec.Cmd) error
}

// NewEditorChain builds a chain for path. preferred may hold arguments,
// e.g. "code --wait"; an empty preferred uses only the fallbacks.
func NewEditorChain(preferred, path string) *EditorChain {
	return &EditorChain{Preferred: preferred, Path: path, run: (*exec.Cmd).Run}
}

func (e *EditorChain) SetStdin(r io.Reader) { e.stdin = r }
func (e *EditorChain) SetStdout(w io.Writer) { e.stdout = w }
func (e *EditorChain) SetStderr(w io.Writer) { e.stderr = w }

// Candidates returns the command lines to try, without duplicates.
func (e *EditorChain) Candidates() [][]string {
	var candidates [][]string
	seen := make(map[string]bool)
	add := func(argv []string) {
		key := strings.Join(argv, " ")
		if len(argv) == 0 || seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, argv)
	}

	add(strings.Fields(e.Preferred))
	for _, name := range FallbackEditors {
		add([]string{name})
	}
	return candidates
}

// Run launches each candidate in turn until one exits successfully. A
// candidate that cannot start or exits non-zero falls through to the next.
func (e *EditorChain) Run() error {
	var tried []string
	for _, argv := range e.Candidates() {
		cmd := exec.Command(argv[0], append(argv[1:], e.Path)...)
		cmd.Stdin = e.stdin
		cmd.Stdout = e.stdout
		cmd.Stderr = e.stderr

		err := e.run(cmd)
		if err == nil {
			return nil
		}
		tried = append(tried, fmt.Sprintf("%s (%v)", argv[0], err))
	}
	return fmt.Errorf("%w %s: tried %s", ErrNoEditor, e.Path, strings.Join(tried, ", "))
}
