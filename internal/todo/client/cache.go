package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/todolist/todo-service/internal/todo"
	"github.com/todolist/todo-service/pkg/logger"
)

var (
	ErrEmptyText = errors.New("text must not be empty")
	ErrUnknownID = errors.New("todo not in local cache")
)

// API is the set of remote calls the cache relies on. *Client implements it.
type API interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, text string) (*todo.Todo, error)
	Update(ctx context.Context, id string, p todo.Patch) (*todo.Todo, error)
	Delete(ctx context.Context, id string) error
}

// Cache mirrors the records last confirmed by the server. Local state changes
// only after a successful response; a failed call is logged and returned,
// leaving the cache as it was. Changes made by other clients are not seen
// until the next Load, and concurrent calls are applied in completion order.
type Cache struct {
	api   API
	mu    sync.Mutex
	items []todo.Todo
}

func NewCache(api API) *Cache {
	return &Cache{api: api, items: []todo.Todo{}}
}

// Items returns a copy of the cached records in display order.
func (c *Cache) Items() []todo.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return todo.Clone(c.items)
}

// Load replaces the cache with the server's list.
func (c *Cache) Load(ctx context.Context) error {
	list, err := c.api.List(ctx)
	if err != nil {
		logger.Warnf("todo cache: load failed: %v", err)
		return err
	}
	c.mu.Lock()
	c.items = todo.Clone(list)
	c.mu.Unlock()
	return nil
}

// Add creates a todo and puts it at the front of the cache. Blank input is
// rejected locally without contacting the server.
func (c *Cache) Add(ctx context.Context, text string) (*todo.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	created, err := c.api.Create(ctx, text)
	if err != nil {
		logger.Warnf("todo cache: add failed: %v", err)
		return nil, err
	}
	c.mu.Lock()
	c.items = append([]todo.Todo{*created}, c.items...)
	c.mu.Unlock()
	return created, nil
}

// Toggle flips the completed flag of a cached todo on the server, then locally.
func (c *Cache) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	var current bool
	if idx >= 0 {
		current = c.items[idx].Completed
	}
	c.mu.Unlock()
	if idx < 0 {
		return ErrUnknownID
	}

	next := !current
	if _, err := c.api.Update(ctx, id, todo.Patch{Completed: &next}); err != nil {
		logger.Warnf("todo cache: toggle %s failed: %v", id, err)
		return err
	}
	c.mu.Lock()
	// the record may have been removed while the request was in flight
	if i := c.indexLocked(id); i >= 0 {
		c.items[i].Completed = next
	}
	c.mu.Unlock()
	return nil
}

// Remove deletes a todo on the server and drops it from the cache.
func (c *Cache) Remove(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		logger.Warnf("todo cache: remove %s failed: %v", id, err)
		return err
	}
	c.mu.Lock()
	kept := make([]todo.Todo, 0, len(c.items))
	for _, t := range c.items {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.items = kept
	c.mu.Unlock()
	return nil
}

func (c *Cache) indexLocked(id string) int {
	for i, t := range c.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}
