package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/todolist/todo-service/internal/todo"
)

// SQLiteStore keeps one row per todo. The set is replaced inside a single
// transaction, so a reader sees either the old or the new set.
// The schema is created by database.MigrateSQLite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed, created_at FROM todos ORDER BY position`)
	if err != nil {
		return nil, readErr("sqlite", err)
	}
	defer rows.Close()

	out := []todo.Todo{}
	for rows.Next() {
		var (
			t         todo.Todo
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &createdAt); err != nil {
			return nil, readErr("sqlite", err)
		}
		t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, readErr("sqlite", fmt.Errorf("parse created_at for %s: %w", t.ID, err))
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("sqlite", err)
	}
	return out, nil
}

func (s *SQLiteStore) WriteAll(ctx context.Context, todos []todo.Todo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return writeErr("sqlite", err)
	}
	defer tx.Rollback() // no-op after Commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return writeErr("sqlite", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO todos (id, position, text, completed, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return writeErr("sqlite", err)
	}
	defer stmt.Close()

	for i, t := range todos {
		if _, err := stmt.ExecContext(ctx, t.ID, i, t.Text, t.Completed, t.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return writeErr("sqlite", fmt.Errorf("insert %s: %w", t.ID, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return writeErr("sqlite", err)
	}
	return nil
}
