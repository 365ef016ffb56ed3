// Package opener hands paths to the platform default application and to
// terminal editors.
package opener

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Opener launches the platform default handler for a path.
type Opener struct {
	goos string
	run  func(cmd *exec.Cmd) error
}

// New returns an Opener for the running platform.
func New() *Opener {
	return &Opener{goos: runtime.GOOS, run: (*exec.Cmd).Run}
}

// Open launches the default application for path. The path must exist.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	cmd, err := o.command(path)
	if err != nil {
		return err
	}
	if err := o.run(cmd); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return nil
}

// Reveal opens the directory containing path.
func (o *Opener) Reveal(path string) error {
	return o.Open(filepath.Dir(path))
}

func (o *Opener) command(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "windows":
		// The empty quoted string is the window title expected by start.
		return exec.Command("cmd", "/c", "start", `""`, path), nil
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return exec.Command("xdg-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}
