package index

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
)

// DefaultGlobResults caps Glob when maxResults is not positive.
const DefaultGlobResults = 50

// Query returns the paths matching term.
//
// A term beginning with "." is a literal suffix: ".mp3" matches paths ending
// in ".mp3". Any other term is split on whitespace and every case-folded word
// must occur somewhere in the path, case-insensitively and in any order.
// A term without words yields no results. Result order is whatever the
// database returns.
func (s *Store) Query(term string) ([]string, error) {
	if strings.HasPrefix(term, ".") {
		return s.querySuffix(term)
	}
	return s.queryWords(SplitWords(term))
}

func (s *Store) querySuffix(suffix string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT path FROM files WHERE path LIKE ? ESCAPE '\'`,
		"%"+escapeLike(suffix),
	)
	if err != nil {
		return nil, storeErr("querying suffix "+suffix, err)
	}
	return collectPaths(rows, nil)
}

// nonASCIIGlob matches paths holding any character outside ASCII.
const nonASCIIGlob = "*[^\x01-\x7f]*"

// queryWords narrows the scan in SQL with the ASCII words, whose LIKE
// comparison SQLite folds, and checks every word again on the case-folded
// path. Paths with non-ASCII characters always reach the Go check: folding
// can turn them into ASCII ("Straße" holds "strasse").
func (s *Store) queryWords(words []string) ([]string, error) {
	if len(words) == 0 {
		return []string{}, nil
	}

	var conds []string
	var args []any
	for _, w := range words {
		if !isASCII(w) {
			continue
		}
		conds = append(conds, `(path LIKE ? ESCAPE '\' OR path GLOB ?)`)
		args = append(args, "%"+escapeLike(w)+"%", nonASCIIGlob)
	}

	query := "SELECT path FROM files"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("querying words %q", words), err)
	}
	return collectPaths(rows, func(path string) bool {
		return containsAll(Fold(path), words)
	})
}

// Glob returns up to maxResults stored files whose forward-slash path matches a
// doublestar pattern, ordered by path.
func (s *Store) Glob(pattern string, maxResults int) ([]IndexedFile, error) {
	if maxResults <= 0 {
		maxResults = DefaultGlobResults
	}
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	rows, err := s.db.Query("SELECT id, path FROM files ORDER BY path")
	if err != nil {
		return nil, storeErr("listing files", err)
	}
	defer rows.Close()

	var results []IndexedFile
	for rows.Next() {
		var f IndexedFile
		if err := rows.Scan(&f.ID, &f.Path); err != nil {
			return nil, storeErr("scanning file row", err)
		}
		matched, err := doublestar.Match(pattern, filepath.ToSlash(f.Path))
		if err != nil || !matched {
			continue
		}
		results = append(results, f)
		if len(results) >= maxResults {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("listing files", err)
	}
	return results, nil
}

// Count returns the number of stored paths.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&n); err != nil {
		return 0, storeErr("counting files", err)
	}
	return n, nil
}

// Each calls fn for every stored path. fn must not call back into the Store:
// the single connection stays busy until iteration ends.
func (s *Store) Each(fn func(path string) error) error {
	rows, err := s.db.Query("SELECT path FROM files")
	if err != nil {
		return storeErr("listing files", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return storeErr("scanning file row", err)
		}
		if err := fn(path); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return storeErr("listing files", err)
	}
	return nil
}

func collectPaths(rows *sql.Rows, keep func(string) bool) ([]string, error) {
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, storeErr("scanning path", err)
		}
		if keep == nil || keep(path) {
			paths = append(paths, path)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("reading paths", err)
	}
	return paths, nil
}

// SplitWords splits a search term on whitespace and case-folds each word.
func SplitWords(term string) []string {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = Fold(w)
	}
	return words
}

// Fold applies Unicode case folding. A Caser is stateful, so each call
// gets its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
