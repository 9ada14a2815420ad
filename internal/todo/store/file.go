package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/todolist/todo-service/internal/todo"
)

// FileStore keeps the todo set as a single pretty-printed JSON array.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []todo.Todo{}, nil
		}
		return nil, readErr("file", fmt.Errorf("read file: %w", err))
	}
	var todos []todo.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, readErr("file", fmt.Errorf("json unmarshal: %w", err))
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

// WriteAll writes to a temp file in the target directory and renames it over
// the old file, so the previous contents stay intact until the swap.
func (s *FileStore) WriteAll(ctx context.Context, todos []todo.Todo) error {
	if todos == nil {
		todos = []todo.Todo{}
	}
	b, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return writeErr("file", fmt.Errorf("json marshal: %w", err))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeErr("file", fmt.Errorf("mkdir: %w", err))
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return writeErr("file", fmt.Errorf("create temp: %w", err))
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		cleanup()
		return writeErr("file", fmt.Errorf("write temp: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return writeErr("file", fmt.Errorf("sync temp: %w", err))
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return writeErr("file", fmt.Errorf("close temp: %w", err))
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return writeErr("file", fmt.Errorf("chmod temp: %w", err))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return writeErr("file", fmt.Errorf("rename: %w", err))
	}
	return nil
}
