// Package store persists the complete todo set. Every backend exposes the same
// two operations: read everything and replace everything. There is no partial
// update and no locking between callers; two concurrent read-modify-write
// cycles resolve as last write wins.
package store

import (
	"context"
	"fmt"

	"github.com/todolist/todo-service/internal/todo"
)

// Store is the persistence contract used by the todo service.
type Store interface {
	// ReadAll returns every stored record in stored order. A store that has
	// never been written returns an empty slice and no error.
	ReadAll(ctx context.Context) ([]todo.Todo, error)
	// WriteAll replaces the stored set with todos. Readers never observe a
	// partially written set.
	WriteAll(ctx context.Context, todos []todo.Todo) error
}

// Error is returned for any backend failure (I/O, connectivity, malformed data).
type Error struct {
	Backend string
	Op      string // read|write
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s store %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func readErr(backend string, err error) error {
	return &Error{Backend: backend, Op: "read", Err: err}
}

func writeErr(backend string, err error) error {
	return &Error{Backend: backend, Op: "write", Err: err}
}
