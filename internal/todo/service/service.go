// Package service implements the todo operations as read-modify-write cycles
// over a store.Store. Each mutating call reads the full set, changes it in
// memory and writes it back exactly once; List never writes.
//
// No lock spans the cycle. Two concurrent writers can lose one of their
// changes (last write wins). That is accepted for a single-user list.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/todolist/todo-service/internal/todo"
	"github.com/todolist/todo-service/internal/todo/store"
)

var (
	ErrValidation = errors.New("text must not be empty")
	ErrNotFound   = errors.New("todo not found")
)

// maxIDAttempts bounds regeneration when the id generator collides.
const maxIDAttempts = 8

// Service is the business layer used by the HTTP handlers.
type Service struct {
	store store.Store
	newID func() string
	now   func() time.Time
}

type Option func(*Service)

// WithIDGenerator overrides the default random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		newID: uuid.NewString,
		// millisecond precision, matching ISO-8601 timestamps produced by browsers
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns every todo, newest first.
func (s *Service) List(ctx context.Context) ([]todo.Todo, error) {
	todos, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	todo.SortNewestFirst(todos)
	return todos, nil
}

// Create appends a new, incomplete todo. Text that is empty after trimming is
// rejected before the store is touched.
func (s *Service) Create(ctx context.Context, text string) (*todo.Todo, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrValidation
	}
	todos, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.uniqueID(todos)
	if err != nil {
		return nil, err
	}
	t := todo.Todo{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
	}
	todos = append(todos, t)
	if err := s.store.WriteAll(ctx, todos); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update merges the supplied fields onto the todo with the given id.
// ID and CreatedAt are never changed. Text is merged as given; only Create
// requires it to be non-empty.
func (s *Service) Update(ctx context.Context, id string, p todo.Patch) (*todo.Todo, error) {
	todos, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(todos, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	p.Apply(&todos[idx])
	if err := s.store.WriteAll(ctx, todos); err != nil {
		return nil, err
	}
	updated := todos[idx]
	return &updated, nil
}

// Delete removes the todo with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	todos, err := s.store.ReadAll(ctx)
	if err != nil {
		return err
	}
	kept := make([]todo.Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(todos) {
		return ErrNotFound
	}
	return s.store.WriteAll(ctx, kept)
}

func (s *Service) uniqueID(existing []todo.Todo) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && indexOf(existing, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique id after %d attempts", maxIDAttempts)
}

func indexOf(todos []todo.Todo, id string) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err means the todo does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
