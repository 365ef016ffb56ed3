package index

import (
	"strings"
	"time"
)

// DefaultHistoryLimit is the number of entries History returns when the
// requested limit is not positive.
const DefaultHistoryLimit = 20

// HistoryEntry is one remembered search term.
type HistoryEntry struct {
	Term     string
	LastUsed time.Time
}

// AddHistory records term as used now. An existing identical term only has
// its timestamp refreshed. Blank terms are ignored.
func (s *Store) AddHistory(term string) error {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO search_history(term, last_used) VALUES (?, ?)
		 ON CONFLICT(term) DO UPDATE SET last_used = excluded.last_used`,
		term, s.now().UnixNano(),
	)
	if err != nil {
		return storeErr("adding history term", err)
	}
	return nil
}

// History returns at most limit entries, most recently used first.
func (s *Store) History(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := s.db.Query(
		"SELECT term, last_used FROM search_history ORDER BY last_used DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, storeErr("reading history", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var nanos int64
		if err := rows.Scan(&e.Term, &nanos); err != nil {
			return nil, storeErr("scanning history row", err)
		}
		e.LastUsed = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("reading history", err)
	}
	return entries, nil
}

// DeleteHistory removes a single term. Deleting an unknown term is a no-op.
func (s *Store) DeleteHistory(term string) error {
	if _, err := s.db.Exec("DELETE FROM search_history WHERE term = ?", term); err != nil {
		return storeErr("deleting history term", err)
	}
	return nil
}

// ClearHistory removes every history entry.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM search_history"); err != nil {
		return storeErr("clearing history", err)
	}
	return nil
}
