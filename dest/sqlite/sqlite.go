// Package sqlite opens SQLite destination databases.
package sqlite

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // register driver
)

// Open opens (or creates) the SQLite database at path. Use ":memory:"
// for a throwaway destination.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// The driver serializes access per connection; one connection keeps
	// import transactions from contending with each other.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
