// internal/db/sqlite.go
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

func openSQLite(dsn string) (*sql.DB, error) {
	// For SQLite the DSN is a file path; strip sqlite:// if present
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: ":memory:" databases are per connection, and sqlite
	// serializes writers anyway
	db.SetMaxOpenConns(1)

	// Apply SQLite pragmas for better performance and safety
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma foreign_keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	return db, nil
}
