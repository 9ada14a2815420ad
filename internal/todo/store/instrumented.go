package store

import (
	"context"

	"github.com/todolist/todo-service/internal/todo"
	"github.com/todolist/todo-service/pkg/metrics"
)

type instrumented struct {
	next    Store
	backend string
}

// Instrument wraps s so every WriteAll is counted in metrics.StoreWrites and
// metrics.StoredItems follows the size of the set.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (i *instrumented) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	todos, err := i.next.ReadAll(ctx)
	if err == nil {
		metrics.StoredItems.WithLabelValues(i.backend).Set(float64(len(todos)))
	}
	return todos, err
}

func (i *instrumented) WriteAll(ctx context.Context, todos []todo.Todo) error {
	err := i.next.WriteAll(ctx, todos)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	} else {
		metrics.StoredItems.WithLabelValues(i.backend).Set(float64(len(todos)))
	}
	metrics.StoreWrites.WithLabelValues(i.backend, outcome).Inc()
	return err
}
