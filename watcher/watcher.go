// Package watcher reports files created under the indexed roots so they can
// be added to the index without a full crawl.
package watcher

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Filter decides whether an entry is excluded. Implemented by *ignore.Matcher.
type Filter interface {
	ShouldIgnore(path string, isDir bool) bool
}

// Reloader is implemented by filters that re-read the root's .gitignore.
type Reloader interface {
	Reload()
}

// Root is one watched tree with the same limits the crawler applies to it.
type Root struct {
	Dir     string
	Depth   int
	Matcher Filter
}

// Watcher watches every non-ignored directory of its roots and emits the
// paths of newly created regular files in debounced batches.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	roots     []Root
	logger    *slog.Logger
}

// New registers all non-ignored directories of roots up to their depth limit.
func New(roots []Root, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(DefaultDebounce),
		roots:     roots,
		logger:    logger,
	}

	watched := 0
	for _, root := range roots {
		watched += w.addTree(root, root.Dir, false)
	}
	if watched == 0 {
		fsWatcher.Close()
		return nil, errors.New("no directories to watch")
	}
	logger.Info("watching for new files", "roots", len(roots), "directories", watched)
	return w, nil
}

// Events returns the channel of created file batches. It is closed by Close.
func (w *Watcher) Events() <-chan []string {
	return w.debouncer.Output()
}

// Start begins listening for file system events. Call this in a goroutine.
// It runs until the watcher is closed.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent reacts to creations; a rename delivers a Create for the new
// name. Removals leave stale entries in the index. A root's .gitignore is
// also followed on Write so the matcher sees edits.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	path := event.Name
	root, depth, ok := w.rootFor(path)
	if !ok || depth > root.Depth {
		return
	}

	// Checked before the ignore rules, which usually exclude dot files.
	if path == filepath.Join(root.Dir, ".gitignore") {
		if r, ok := root.Matcher.(Reloader); ok {
			r.Reload()
			w.logger.Info("reloaded ignore rules", "root", root.Dir)
		}
	}
	if !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Lstat(path)
	if err != nil {
		return // already gone
	}

	switch {
	case info.IsDir():
		// Files may land in the directory before the watch is added.
		w.addTree(root, path, true)
	case w.isFile(path, info.Mode()):
		if root.Matcher.ShouldIgnore(path, false) {
			return
		}
		w.debouncer.Add(path)
	}
}

// addTree watches dir and its non-ignored subdirectories within the depth
// limit. With emit set, regular files found on the way are reported as
// created. It returns the number of directories added.
func (w *Watcher) addTree(root Root, dir string, emit bool) int {
	added := 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		depth := depthBelow(root.Dir, path)
		if !d.IsDir() {
			if emit && w.isFile(path, d.Type()) && !root.Matcher.ShouldIgnore(path, false) {
				w.debouncer.Add(path)
			}
			return nil
		}
		if path != root.Dir && root.Matcher.ShouldIgnore(path, true) {
			return filepath.SkipDir
		}
		if depth >= root.Depth {
			// Entries of this directory lie beyond the limit.
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
			return nil
		}
		added++
		return nil
	})
	return added
}

func (w *Watcher) isFile(path string, mode fs.FileMode) bool {
	if mode&fs.ModeSymlink != 0 {
		target, err := os.Stat(path)
		return err == nil && target.Mode().IsRegular()
	}
	return mode.IsRegular()
}

// rootFor returns the innermost root containing path and the depth of path below it.
func (w *Watcher) rootFor(path string) (Root, int, bool) {
	best := -1
	for i, root := range w.roots {
		if within(root.Dir, path) && (best < 0 || len(root.Dir) > len(w.roots[best].Dir)) {
			best = i
		}
	}
	if best < 0 {
		return Root{}, 0, false
	}
	root := w.roots[best]
	return root, depthBelow(root.Dir, path), true
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// depthBelow counts the path elements of path below root; root itself is 0.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Close stops the watcher and closes the Events channel.
func (w *Watcher) Close() error {
	err := w.fsWatcher.Close()
	w.debouncer.Stop()
	return err
}
