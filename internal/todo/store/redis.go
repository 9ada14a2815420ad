package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/todolist/todo-service/internal/todo"
)

// RedisStore keeps the whole todo set as one JSON value under a single key.
// SET replaces the value atomically.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed store. Key may be empty.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "todos"
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []todo.Todo{}, nil
		}
		return nil, readErr("redis", err)
	}
	var todos []todo.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, readErr("redis", fmt.Errorf("json unmarshal: %w", err))
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

func (r *RedisStore) WriteAll(ctx context.Context, todos []todo.Todo) error {
	if todos == nil {
		todos = []todo.Todo{}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return writeErr("redis", fmt.Errorf("json marshal: %w", err))
	}
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return writeErr("redis", err)
	}
	return nil
}
