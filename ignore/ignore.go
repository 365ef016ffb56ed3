package ignore

import (
	"os"
	"path/filepath"
	"sync"

	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides whether an entry below one traversal root is excluded.
// It combines the compiled rule set with the root's .gitignore when enabled.
// Thread-safe: Reload() takes the write lock, ShouldIgnore() the read lock.
type Matcher struct {
	mu               sync.RWMutex
	rules            *Rules
	rootDir          string
	respectGitignore bool
	gitIgnore        gitignore.GitIgnore
}

// MatcherOptions configures a Matcher for a single root.
type MatcherOptions struct {
	RootDir          string
	Rules            *Rules
	RespectGitignore bool
}

// NewMatcher creates a matcher for options.RootDir.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rules:            options.Rules,
		rootDir:          options.RootDir,
		respectGitignore: options.RespectGitignore,
	}
	if matcher.respectGitignore {
		matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	}
	return matcher
}

// RootDir returns the traversal root this matcher evaluates against.
func (m *Matcher) RootDir() string {
	return m.rootDir
}

// ShouldIgnore returns true if the entry at path must be skipped (files)
// or pruned together with its subtree (directories).
func (m *Matcher) ShouldIgnore(path string, isDir bool) bool {
	if m.rules.IsIgnored(path, m.rootDir) {
		return true
	}

	m.mu.RLock()
	gi := m.gitIgnore
	m.mu.RUnlock()
	if gi == nil {
		return false
	}

	relativePath, ok := stripRoot(path, m.rootDir)
	if !ok || relativePath == "" {
		return false
	}
	// Relative() does not touch the filesystem, so vanished paths are fine.
	match := gi.Relative(filepath.ToSlash(relativePath), isDir)
	return match != nil && match.Ignore()
}

// Reload re-reads the root's .gitignore. Used when the watcher sees it change.
func (m *Matcher) Reload() {
	if !m.respectGitignore {
		return
	}
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Reading through an io.Reader keeps the file handle closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
