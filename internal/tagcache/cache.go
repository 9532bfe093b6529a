// Package tagcache provides the universal CodeTag model and a
// SQLite-backed persistent cache keyed jointly on each file's content
// hash and modification time, so a file is only re-parsed when it has
// actually changed.
package tagcache

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/repomap-dev/repomap/internal/errs"
)

// CodeTag is a universal, language-agnostic symbol extracted from a file.
type CodeTag struct {
	Name      string
	Kind      string
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	RelFname  string
}

// FileTags groups every tag extracted from one file.
type FileTags struct {
	FilePath string
	Tags     []CodeTag
}

// Cache manages the on-disk tag cache database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the tag cache database under the given cache
// directory, as the file tags.db (the CLI passes <project>/.repomap).
func Open(cacheDir string) (*Cache, error) {
	dbPath := filepath.Join(cacheDir, "tags.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errs.New(errs.Cache, "open tag cache", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errs.New(errs.Cache, "set WAL mode", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, errs.New(errs.Cache, "enable foreign keys", err)
	}

	c := &Cache{db: db, dbPath: dbPath}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, errs.New(errs.Cache, "init tag cache schema", err)
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the on-disk path of the cache database.
func (c *Cache) Path() string { return c.dbPath }

// Clear removes all cached file and tag rows.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM file_cache")
	if err != nil {
		return errs.New(errs.Cache, "clear tag cache", err)
	}
	return nil
}

// Lookup returns the cached tags for filePath if its content hash still
// matches what was stored and its current mtime has not advanced past
// the stored mtime, along with whether it was a hit. mtime validity is
// "current <= stored", not strict equality: a file whose mtime moves
// backward (a git checkout, clock skew) still hits on unchanged
// content, while any mtime newer than the cached one forces a miss.
func (c *Cache) Lookup(filePath, fileHash string, mtime time.Time) (*FileTags, bool, error) {
	var storedHash string
	var storedMtime int64
	err := c.db.QueryRow(
		"SELECT file_hash, mtime FROM file_cache WHERE file_path = ?", filePath,
	).Scan(&storedHash, &storedMtime)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.New(errs.Cache, fmt.Sprintf("lookup %s", filePath), err)
	}

	if storedHash != fileHash || mtime.Unix() > storedMtime {
		return nil, false, nil
	}

	tags, err := c.tagsForFile(filePath)
	if err != nil {
		return nil, false, err
	}
	return &FileTags{FilePath: filePath, Tags: tags}, true, nil
}

func (c *Cache) tagsForFile(filePath string) ([]CodeTag, error) {
	rows, err := c.db.Query(`
		SELECT name, kind, file, line, column, end_line, end_column, rel_fname
		FROM tags WHERE file_path = ? ORDER BY line, column`, filePath)
	if err != nil {
		return nil, errs.New(errs.Cache, fmt.Sprintf("query tags %s", filePath), err)
	}
	defer rows.Close()

	var tags []CodeTag
	for rows.Next() {
		var t CodeTag
		var endLine, endColumn sql.NullInt64
		var relFname sql.NullString
		if err := rows.Scan(&t.Name, &t.Kind, &t.File, &t.Line, &t.Column, &endLine, &endColumn, &relFname); err != nil {
			return nil, errs.New(errs.Cache, "scan tag row", err)
		}
		t.EndLine = int(endLine.Int64)
		t.EndColumn = int(endColumn.Int64)
		t.RelFname = relFname.String
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New(errs.Cache, "iterate tag rows", err)
	}
	return tags, nil
}

// Store replaces the cached tags for a file with a new set, recording the
// content hash and mtime used to produce them.
func (c *Cache) Store(filePath, fileHash string, mtime time.Time, tags []CodeTag) error {
	tx, err := c.db.Begin()
	if err != nil {
		return errs.New(errs.Cache, "begin store transaction", err)
	}

	if _, err := tx.Exec("DELETE FROM file_cache WHERE file_path = ?", filePath); err != nil {
		tx.Rollback()
		return errs.New(errs.Cache, fmt.Sprintf("evict stale entry %s", filePath), err)
	}

	if _, err := tx.Exec(
		`INSERT INTO file_cache (file_path, file_hash, mtime, cached_at) VALUES (?, ?, ?, ?)`,
		filePath, fileHash, mtime.Unix(), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		tx.Rollback()
		return errs.New(errs.Cache, fmt.Sprintf("store file entry %s", filePath), err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tags (file_path, name, kind, file, line, column, end_line, end_column, rel_fname)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errs.New(errs.Cache, "prepare tag insert", err)
	}
	defer stmt.Close()

	for _, t := range tags {
		if _, err := stmt.Exec(filePath, t.Name, t.Kind, t.File, t.Line, t.Column, t.EndLine, t.EndColumn, t.RelFname); err != nil {
			tx.Rollback()
			return errs.New(errs.Cache, fmt.Sprintf("insert tag %s", t.Name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.New(errs.Cache, "commit store transaction", err)
	}
	return nil
}

// Invalidate removes any cached entry for filePath, forcing re-extraction
// on the next Lookup.
func (c *Cache) Invalidate(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_cache WHERE file_path = ?", filePath)
	if err != nil {
		return errs.New(errs.Cache, fmt.Sprintf("invalidate %s", filePath), err)
	}
	return nil
}

// AllTags returns every cached tag across every file, keyed by file path.
func (c *Cache) AllTags() (map[string][]CodeTag, error) {
	rows, err := c.db.Query(`
		SELECT file_path, name, kind, file, line, column, end_line, end_column, rel_fname
		FROM tags ORDER BY file_path, line, column`)
	if err != nil {
		return nil, errs.New(errs.Cache, "query all tags", err)
	}
	defer rows.Close()

	out := make(map[string][]CodeTag)
	for rows.Next() {
		var fp string
		var t CodeTag
		var endLine, endColumn sql.NullInt64
		var relFname sql.NullString
		if err := rows.Scan(&fp, &t.Name, &t.Kind, &t.File, &t.Line, &t.Column, &endLine, &endColumn, &relFname); err != nil {
			return nil, errs.New(errs.Cache, "scan tag row", err)
		}
		t.EndLine = int(endLine.Int64)
		t.EndColumn = int(endColumn.Int64)
		t.RelFname = relFname.String
		out[fp] = append(out[fp], t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New(errs.Cache, "iterate tag rows", err)
	}
	return out, nil
}

// Stats summarizes the cache's contents.
type Stats struct {
	FileCount int64
	TagCount  int64
}

// GetStats returns the number of cached files and tags.
func (c *Cache) GetStats() (*Stats, error) {
	var s Stats
	if err := c.db.QueryRow("SELECT COUNT(*) FROM file_cache").Scan(&s.FileCount); err != nil {
		return nil, errs.New(errs.Cache, "count files", err)
	}
	if err := c.db.QueryRow("SELECT COUNT(*) FROM tags").Scan(&s.TagCount); err != nil {
		return nil, errs.New(errs.Cache, "count tags", err)
	}
	return &s, nil
}
