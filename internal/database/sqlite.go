package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, registers "sqlite"
)

// OpenSQLite opens (creating if needed) the SQLite database at path and
// ensures the schema exists. SQLite allows one writer at a time, so the pool
// is capped at a single connection.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if err := MigrateSQLite(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// MigrateSQLite runs the SQL statements to set up the todo schema.
func MigrateSQLite(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS todos (
		id TEXT NOT NULL PRIMARY KEY,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}
