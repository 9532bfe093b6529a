package tagcache

// schemaSQL defines the SQLite schema for the tag cache database.
// Tables:
//   - file_cache: tracks (content hash, mtime) per file for invalidation
//   - tags: the extracted CodeTag rows for each cached file
const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_cache (
    file_path TEXT PRIMARY KEY,
    file_hash TEXT NOT NULL,
    mtime     INTEGER NOT NULL,
    cached_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    file_path  TEXT NOT NULL REFERENCES file_cache(file_path) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    kind       TEXT NOT NULL,
    file       TEXT NOT NULL,
    line       INTEGER NOT NULL,
    column     INTEGER NOT NULL DEFAULT 0,
    end_line   INTEGER,
    end_column INTEGER,
    rel_fname  TEXT
);

CREATE INDEX IF NOT EXISTS idx_tags_file_path ON tags(file_path);
CREATE INDEX IF NOT EXISTS idx_tags_kind ON tags(kind);
`

func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
