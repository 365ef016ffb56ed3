package crawler

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// Reporter receives crawl events. Done is called once for every crawl that
// completes, whatever the verbosity.
type Reporter interface {
	Ignored(path string)
	Discovered(count int, path string)
	Progress(stats Stats)
	Done(stats Stats)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Ignored(string) {}
func (NopReporter) Discovered(int, string) {}
func (NopReporter) Progress(Stats) {}
func (NopReporter) Done(Stats) {}

// Summary renders the final line of a crawl.
func Summary(stats Stats) string {
	return fmt.Sprintf("Indexing complete: Found %s files, traversed %s directories, ignored %s items in %s",
		humanize.Comma(int64(stats.Files)),
		humanize.Comma(int64(stats.Dirs)),
		humanize.Comma(int64(stats.Ignored)),
		formatElapsed(stats.Elapsed),
	)
}

func progressLine(stats Stats) string {
	return fmt.Sprintf("Indexing... Files: %s, Dirs: %s, Ignored: %s, Elapsed: %s",
		humanize.Comma(int64(stats.Files)),
		humanize.Comma(int64(stats.Dirs)),
		humanize.Comma(int64(stats.Ignored)),
		formatElapsed(stats.Elapsed),
	)
}

func formatElapsed(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.String()
	}
}

// VerboseReporter logs every ignored and discovered entry plus periodic
// progress records, then writes the summary line to Out.
type VerboseReporter struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (r *VerboseReporter) Ignored(path string) {
	r.Logger.Info("skipping ignored path", "path", path)
}

func (r *VerboseReporter) Discovered(count int, path string) {
	r.Logger.Info("discovered", "n", count, "path", path)
}

func (r *VerboseReporter) Progress(stats Stats) {
	r.Logger.Info("progress",
		"files", stats.Files,
		"dirs", stats.Dirs,
		"ignored", stats.Ignored,
		"elapsed", formatElapsed(stats.Elapsed),
	)
}

func (r *VerboseReporter) Done(stats Stats) {
	fmt.Fprintln(r.Out, Summary(stats))
}

// LineReporter keeps a single status line up to date by rewriting it in
// place with a carriage return.
type LineReporter struct {
	Out   io.Writer
	Width func() int // terminal width; 0 disables padding

	last int
}

// NewLineReporter writes to out, padding lines to the terminal width when
// out is a terminal.
func NewLineReporter(out io.Writer) *LineReporter {
	r := &LineReporter{Out: out, Width: func() int { return 0 }}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.Width = func() int {
			w, _, err := term.GetSize(int(f.Fd()))
			if err != nil {
				return 0
			}
			return w
		}
	}
	return r
}

func (r *LineReporter) Ignored(string) {}
func (r *LineReporter) Discovered(int, string) {}

func (r *LineReporter) Progress(stats Stats) {
	r.rewrite(progressLine(stats))
}

func (r *LineReporter) Done(stats Stats) {
	r.rewrite("")
	fmt.Fprint(r.Out, "\r", Summary(stats), "\n")
	r.last = 0
}

func (r *LineReporter) rewrite(line string) {
	pad := r.last - len(line)
	if w := r.Width(); w > 0 {
		if len(line) >= w {
			line = line[:w-1]
		}
		pad = w - 1 - len(line)
	}
	if pad < 0 {
		pad = 0
	}
	fmt.Fprint(r.Out, "\r", line, strings.Repeat(" ", pad))
	r.last = len(line)
}
