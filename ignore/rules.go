package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternError reports an ignore rule that is not valid glob syntax.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Rules is an ordered set of compiled glob patterns.
// It holds no mutable state after Compile returns.
type Rules struct {
	patterns []string
}

// Compile validates every pattern and returns the compiled rule set.
// Patterns follow doublestar semantics: * stays within a path segment,
// ** spans segments and ? matches a single character.
func Compile(patterns []string) (*Rules, error) {
	compiled := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		normalized := filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(normalized) {
			return nil, &PatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
		}
		compiled = append(compiled, normalized)
	}
	return &Rules{patterns: compiled}, nil
}

// Patterns returns the compiled patterns in their original order.
func (r *Rules) Patterns() []string {
	out := make([]string, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// IsIgnored reports whether path matches any rule, either as given or
// relative to root. The relative check is skipped when path does not
// live under root.
func (r *Rules) IsIgnored(path string, root string) bool {
	if r == nil || len(r.patterns) == 0 {
		return false
	}

	absolute := filepath.ToSlash(path)
	if r.matchAny(absolute) {
		return true
	}

	relative, ok := stripRoot(path, root)
	if !ok {
		return false
	}
	return r.matchAny(filepath.ToSlash(relative))
}

func (r *Rules) matchAny(path string) bool {
	for _, pattern := range r.patterns {
		// Patterns were validated in Compile, so Match cannot fail here.
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// stripRoot removes the root prefix from path on a path-component boundary.
// The root itself maps to the empty string.
func stripRoot(path string, root string) (string, bool) {
	if root == "" {
		return "", false
	}
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return "", true
	}

	prefix := cleanRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(cleanPath, prefix) {
		return "", false
	}
	return cleanPath[len(prefix):], true
}
