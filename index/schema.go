package index

// SchemaVersion is stored in the metadata table on open.
const SchemaVersion = 1

// Schema creates the quickfind tables. Every statement is idempotent so the
// store can be opened on each process launch.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS search_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    term TEXT NOT NULL UNIQUE,
    last_used INTEGER NOT NULL -- unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_search_history_last_used ON search_history(last_used);
`

// Metadata keys.
const (
	MetaSchemaVersion = "schema_version"
	MetaLastIndexed   = "last_indexed"
)
