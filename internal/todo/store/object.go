package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/todolist/todo-service/internal/storage"
	"github.com/todolist/todo-service/internal/todo"
)

// ObjectClient is the subset of an object store the ObjectStore needs.
// *storage.Bucket satisfies it.
type ObjectClient interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// ObjectStore keeps the todo set as one JSON object in a bucket.
type ObjectStore struct {
	client ObjectClient
	key    string
}

func NewObjectStore(client ObjectClient, key string) *ObjectStore {
	if key == "" {
		key = "todos.json"
	}
	return &ObjectStore{client: client, key: key}
}

func (o *ObjectStore) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	data, err := o.client.Get(ctx, o.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return []todo.Todo{}, nil
		}
		return nil, readErr("object", err)
	}

	var todos []todo.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, readErr("object", fmt.Errorf("json decode: %w", err))
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

func (o *ObjectStore) WriteAll(ctx context.Context, todos []todo.Todo) error {
	if todos == nil {
		todos = []todo.Todo{}
	}
	b, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return writeErr("object", fmt.Errorf("json marshal: %w", err))
	}
	if err := o.client.Put(ctx, o.key, b, "application/json"); err != nil {
		return writeErr("object", err)
	}
	return nil
}
