package store

import (
	"context"
	"sync"

	"github.com/todolist/todo-service/internal/todo"
)

// MemoryStore is an in-process Store used by tests and as an explicit
// fallback when a remote backend is unreachable at startup.
type MemoryStore struct {
	mu     sync.RWMutex
	todos  []todo.Todo
	writes int
}

func NewMemoryStore(initial ...todo.Todo) *MemoryStore {
	return &MemoryStore{todos: todo.Clone(initial)}
}

func (m *MemoryStore) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return todo.Clone(m.todos), nil
}

func (m *MemoryStore) WriteAll(ctx context.Context, todos []todo.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.todos = todo.Clone(todos)
	m.writes++
	return nil
}

// Writes reports how many times WriteAll has been called.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
