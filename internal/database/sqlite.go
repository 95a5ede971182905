package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteParams makes concurrent invocations wait on the file lock instead of failing,
// and takes the write lock at BEGIN so exists-then-write sequences are serialized.
const sqliteParams = "_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// NewSQLite opens the embedded SQLite store at path, creating the file if needed
func NewSQLite(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, &ConfigError{Field: "database.file", Reason: "must not be empty in development"}
	}

	// SQLite decodes the URI path, so "?", "#" and "%" in file names survive
	dsn := fmt.Sprintf("file:%s?%s", (&url.URL{Path: path}).EscapedPath(), sqliteParams)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{Backend: "sqlite", Err: err}
	}

	return &DB{
		DB:  sqlx.NewDb(db, "sqlite3"),
		env: Development,
		dsn: dsn,
	}, nil
}
