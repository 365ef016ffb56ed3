// Package crawler walks directory roots and records every file that
// survives the ignore rules in the index store.
package crawler

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"
)

// Defaults for the progress cadence.
const (
	DefaultReportEvery  = 1000
	DefaultReportPeriod = 5 * time.Second
)

// Inserter records a discovered file path. Implemented by *index.Store and
// *index.Batch.
type Inserter interface {
	Insert(path string) (bool, error)
}

// Filter decides whether an entry is excluded. Implemented by *ignore.Matcher.
type Filter interface {
	ShouldIgnore(path string, isDir bool) bool
}

// Options configures one crawl of a single root.
type Options struct {
	Root     string
	Depth    int // root is depth 0; entries deeper than Depth are not visited
	Matcher  Filter
	Store    Inserter
	Reporter Reporter
	Logger   *slog.Logger

	ReportEvery  int           // report when the processed count is a multiple of this
	ReportPeriod time.Duration // or when this much time passed since the last report

	now func() time.Time
}

// Stats holds the counters of one crawl.
type Stats struct {
	Root    string
	Files   int // files found, including ones already in the store
	Added   int // files newly inserted
	Dirs    int
	Ignored int
	Elapsed time.Duration
}

// Processed is the number of entries the crawl has made a decision on.
func (s Stats) Processed() int {
	return s.Files + s.Dirs + s.Ignored
}

type node struct {
	path  string
	depth int
}

type crawl struct {
	opts       Options
	stats      Stats
	stack      []node
	start      time.Time
	lastReport time.Time
}

// Crawl walks opts.Root depth first with an explicit stack. Ignored
// directories are pruned with their whole subtree. A store failure aborts
// the crawl and is returned; unreadable directories are logged and skipped.
// Symlinks are never followed.
func Crawl(opts Options) (Stats, error) {
	opts = withDefaults(opts)

	// The root itself is followed when it is a symlink.
	info, err := os.Stat(opts.Root)
	if err != nil {
		return Stats{Root: opts.Root}, fmt.Errorf("reading root %s: %w", opts.Root, err)
	}

	c := &crawl{opts: opts, stats: Stats{Root: opts.Root}}
	c.start = opts.now()
	c.lastReport = c.start

	if err := c.visit(opts.Root, info.Mode().Type(), 0); err != nil {
		return c.finish(), err
	}

	for len(c.stack) > 0 {
		n := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		entries, err := os.ReadDir(n.path)
		if err != nil {
			opts.Logger.Warn("skipping unreadable directory", "path", n.path, "error", err)
			// ReadDir returns the entries read before the error.
		}
		for _, entry := range entries {
			path := filepath.Join(n.path, entry.Name())
			if err := c.visit(path, entry.Type(), n.depth+1); err != nil {
				return c.finish(), err
			}
		}
	}

	stats := c.finish()
	opts.Reporter.Done(stats)
	return stats, nil
}

// visit decides the fate of one entry and then updates the progress cadence.
func (c *crawl) visit(path string, mode fs.FileMode, depth int) error {
	// The index and the display both work on UTF-8 text.
	if !utf8.ValidString(path) {
		c.opts.Logger.Debug("skipping non-UTF-8 path", "path", path)
		return nil
	}
	isDir, isFile := c.classify(path, mode)

	switch {
	case !isDir && !isFile:
		// Sockets, devices and broken links are neither recorded nor counted.
		return nil
	case c.opts.Matcher.ShouldIgnore(path, isDir):
		c.stats.Ignored++
		c.opts.Reporter.Ignored(path)
	case isDir:
		c.stats.Dirs++
		// Symlinked directories are counted but never entered.
		if mode&fs.ModeSymlink == 0 && depth < c.opts.Depth {
			c.stack = append(c.stack, node{path: path, depth: depth})
		}
	default:
		inserted, err := c.opts.Store.Insert(path)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		c.stats.Files++
		if inserted {
			c.stats.Added++
		}
		c.opts.Reporter.Discovered(c.stats.Files, path)
	}

	c.tick()
	return nil
}

// classify resolves an entry to directory or regular file. Symlinks are
// classified by their target.
func (c *crawl) classify(path string, mode fs.FileMode) (isDir, isFile bool) {
	if mode&fs.ModeSymlink != 0 {
		target, err := os.Stat(path)
		if err != nil {
			c.opts.Logger.Debug("skipping broken symlink", "path", path, "error", err)
			return false, false
		}
		mode = target.Mode()
	}
	return mode.IsDir(), mode.IsRegular()
}

func (c *crawl) tick() {
	now := c.opts.now()
	if c.stats.Processed()%c.opts.ReportEvery == 0 || now.Sub(c.lastReport) > c.opts.ReportPeriod {
		stats := c.stats
		stats.Elapsed = now.Sub(c.start)
		c.opts.Reporter.Progress(stats)
		c.lastReport = now
	}
}

func (c *crawl) finish() Stats {
	c.stats.Elapsed = c.opts.now().Sub(c.start)
	return c.stats
}

func withDefaults(opts Options) Options {
	if opts.ReportEvery <= 0 {
		opts.ReportEvery = DefaultReportEvery
	}
	if opts.ReportPeriod <= 0 {
		opts.ReportPeriod = DefaultReportPeriod
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Matcher == nil {
		opts.Matcher = keepAll{}
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	return opts
}

type keepAll struct{}

func (keepAll) ShouldIgnore(string, bool) bool { return false }
