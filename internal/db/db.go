// Package db keeps a read-only sqlite copy of the loaded rental table so
// it can be inspected with SQL from the debug console. The copy is rebuilt
// at every start and is never read back into the dashboard.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type DB struct {
	*sql.DB
	path string
}

// NewDB opens the sqlite database at path and migrates it to the latest
// schema. An empty path is the same as MemoryPath.
func NewDB(path string) (*DB, error) {
	if path == "" {
		path = MemoryPath
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if path == MemoryPath {
		// every new connection to :memory: would be a separate, empty database
		sqlDB.SetMaxOpenConns(1)
	}

	db := &DB{DB: sqlDB, path: path}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the path the database was opened with.
func (db *DB) Path() string {
	return db.path
}
