package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrStore marks every failure that originates in the backing database.
var ErrStore = errors.New("index store error")

// IndexedFile is one recorded path.
type IndexedFile struct {
	ID   int64
	Path string
}

// Store is the persistent path index and search history.
// It holds a single connection; callers issue one operation at a time.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// DefaultPath returns ~/.quickfind/db.sqlite.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".quickfind", "db.sqlite"), nil
}

// Open opens or creates the store at path, creating its parent directory
// and the schema when they do not exist yet.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, storeErr("creating database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storeErr("opening database", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, storeErr("setting pragma", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, storeErr("creating schema", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.SetMeta(MetaSchemaVersion, strconv.Itoa(SchemaVersion)); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storeErr("closing database", err)
	}
	return nil
}

// Insert records path unless it is already present. A duplicate is not an
// error; inserted reports whether a new row was written.
func (s *Store) Insert(path string) (bool, error) {
	return insertPath(s.db, path)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertPath(db execer, path string) (bool, error) {
	res, err := db.Exec("INSERT OR IGNORE INTO files(path) VALUES (?)", path)
	if err != nil {
		return false, storeErr(fmt.Sprintf("inserting %s", path), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("reading affected rows", err)
	}
	return n == 1, nil
}

// Batch groups the inserts of one crawl into a single transaction.
// Nothing it inserted is visible to other connections until Commit.
type Batch struct {
	tx   *sql.Tx
	done bool
}

// Batch starts a new insert transaction.
func (s *Store) Batch() (*Batch, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, storeErr("beginning transaction", err)
	}
	return &Batch{tx: tx}, nil
}

// Insert behaves like Store.Insert inside the transaction.
func (b *Batch) Insert(path string) (bool, error) {
	return insertPath(b.tx, path)
}

// Commit makes the batch durable.
func (b *Batch) Commit() error {
	b.done = true
	if err := b.tx.Commit(); err != nil {
		return storeErr("committing batch", err)
	}
	return nil
}

// Rollback discards the batch. It is a no-op after Commit.
func (b *Batch) Rollback() error {
	if b.done {
		return nil
	}
	b.done = true
	if err := b.tx.Rollback(); err != nil {
		return storeErr("rolling back batch", err)
	}
	return nil
}

// SetMeta stores a metadata value.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata(key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return storeErr("writing metadata "+key, err)
	}
	return nil
}

// Meta reads a metadata value. A missing key returns "" and no error.
func (s *Store) Meta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storeErr("reading metadata "+key, err)
	}
	return value, nil
}

// MarkIndexed records the completion time of an indexing run.
func (s *Store) MarkIndexed() error {
	return s.SetMeta(MetaLastIndexed, s.now().UTC().Format(time.RFC3339))
}

// LastIndexed returns the time of the last completed indexing run, or the
// zero time if none was recorded.
func (s *Store) LastIndexed() (time.Time, error) {
	value, err := s.Meta(MetaLastIndexed)
	if err != nil || value == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, storeErr("parsing last indexed time", err)
	}
	return t, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
