// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
//
// SQLite is a good fit for a personal image vault: a single file, no
// separate database server, and WAL mode gives concurrent readers while a
// write is in flight — enough for the concurrency this server sees.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite".
	_ "modernc.org/sqlite"
)

// DB owns the sql.DB connection pool and hands out the per-entity
// repositories. The repositories share the pool; DB controls its
// lifecycle (New opens and migrates, Close tears down).
type DB struct {
	conn    *sql.DB
	users   *UserRepo
	folders *FolderRepo
	images  *ImageRepo
}

// Users returns the user repository.
func (db *DB) Users() *UserRepo { return db.users }

// Folders returns the folder repository.
func (db *DB) Folders() *FolderRepo { return db.folders }

// Images returns the image repository.
func (db *DB) Images() *ImageRepo { return db.images }

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/imagevault.db" → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Fail fast on a bad path or permissions instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is happening.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The folders.parent_id and
	// images.owner_id references depend on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:    conn,
		users:   &UserRepo{conn: conn},
		folders: &FolderRepo{conn: conn},
		images:  &ImageRepo{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// parent_id is nullable: NULL marks a root folder. The self-reference
	// keeps a parent from being deleted out from under its children (folder
	// deletion is unsupported anyway, but the constraint costs nothing).
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS folders (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			parent_id  TEXT REFERENCES folders(id),
			path       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_folders_owner_id ON folders(owner_id);
		CREATE INDEX IF NOT EXISTS idx_folders_owner_parent ON folders(owner_id, parent_id);
	`)
	if err != nil {
		return fmt.Errorf("creating folders table: %w", err)
	}

	// folder_id is nullable: NULL marks an unfiled image.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS images (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			owner_id     TEXT NOT NULL REFERENCES users(id),
			folder_id    TEXT REFERENCES folders(id),
			storage_path TEXT NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_images_owner_id ON images(owner_id);
		CREATE INDEX IF NOT EXISTS idx_images_owner_folder ON images(owner_id, folder_id);
	`)
	if err != nil {
		return fmt.Errorf("creating images table: %w", err)
	}

	return nil
}

// nullableString converts an optional reference for an INSERT parameter:
// nil becomes SQL NULL.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// scanNullString converts a scanned nullable column back to *string.
func scanNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
