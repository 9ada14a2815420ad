package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todolist/todo-service/internal/todo"
	"github.com/todolist/todo-service/internal/todo/store"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreate_AssignsDefaults(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := time.Date(2025, 5, 5, 10, 0, 0, 0, time.UTC)
	svc := New(st, WithClock(func() time.Time { return now }))

	got, err := svc.Create(ctx, "buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "buy milk", got.Text)
	assert.False(t, got.Completed)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, 1, st.Writes())

	all, err := st.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, *got, all[0])
}

func TestCreate_RejectsBlankText(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := New(st)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.Create(ctx, text)
		require.ErrorIs(t, err, ErrValidation)
		assert.True(t, IsValidation(err))
	}
	assert.Equal(t, 0, st.Writes())
}

func TestCreate_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemoryStore())

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, err := svc.Create(ctx, fmt.Sprintf("item %d", i))
		require.NoError(t, err)
		require.False(t, seen[got.ID], "duplicate id %s", got.ID)
		seen[got.ID] = true
	}
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "1", Text: "existing"})
	ids := []string{"1", "1", "2"}
	svc := New(st, WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	got, err := svc.Create(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)
}

func TestCreate_GivesUpOnPersistentCollision(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "same"})
	svc := New(st, WithIDGenerator(func() string { return "same" }))

	_, err := svc.Create(ctx, "new")
	require.Error(t, err)
	assert.Equal(t, 0, st.Writes())
}

func TestList_SortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore(
		todo.Todo{ID: "mid", CreatedAt: base.Add(time.Hour)},
		todo.Todo{ID: "old", CreatedAt: base},
		todo.Todo{ID: "new", CreatedAt: base.Add(2 * time.Hour)},
	)
	svc := New(st)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
	assert.Equal(t, 0, st.Writes())
}

func TestList_EmptyStore(t *testing.T) {
	list, err := New(store.NewMemoryStore()).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdate_MergesOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := New(st, WithClock(stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))

	created, err := svc.Create(ctx, "buy milk")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, todo.Patch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "buy milk", updated.Text)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	updated, err = svc.Update(ctx, created.ID, todo.Patch{Text: strPtr("buy oat milk")})
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Text)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 3, st.Writes())

	all, err := st.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, *updated, all[0])
}

func TestUpdate_EmptyPatchStillWritesOnce(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "x", Text: "keep"})
	svc := New(st)

	got, err := svc.Update(ctx, "x", todo.Patch{})
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Text)
	assert.Equal(t, 1, st.Writes())
}

func TestUpdate_UnknownID(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "x", Text: "keep"})
	svc := New(st)

	_, err := svc.Update(ctx, "nope", todo.Patch{Completed: boolPtr(true)})
	require.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, st.Writes())
}

func TestUpdate_MergesBlankText(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "x", Text: "keep"})
	svc := New(st)

	got, err := svc.Update(ctx, "x", todo.Patch{Text: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "  ", got.Text)
	assert.Equal(t, 1, st.Writes())
}

func TestUpdate_UnknownIDWithBlankText(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "x", Text: "keep"})
	svc := New(st)

	_, err := svc.Update(ctx, "missing", todo.Patch{Text: strPtr("")})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, st.Writes())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "a"}, todo.Todo{ID: "b"})
	svc := New(st)

	require.NoError(t, svc.Delete(ctx, "a"))
	all, err := st.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, 1, st.Writes())
}

func TestDelete_UnknownID(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(todo.Todo{ID: "a"})
	svc := New(st)

	require.ErrorIs(t, svc.Delete(ctx, "zzz"), ErrNotFound)
	assert.Equal(t, 0, st.Writes())
	all, _ := st.ReadAll(ctx)
	assert.Len(t, all, 1)
}

type brokenStore struct{ readErr, writeErr error }

func (b brokenStore) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	return []todo.Todo{{ID: "a", Text: "x"}}, nil
}

func (b brokenStore) WriteAll(ctx context.Context, todos []todo.Todo) error { return b.writeErr }

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	readFail := &store.Error{Backend: "test", Op: "read", Err: errors.New("disk")}
	writeFail := &store.Error{Backend: "test", Op: "write", Err: errors.New("disk")}

	svc := New(brokenStore{readErr: readFail})
	_, err := svc.List(ctx)
	require.ErrorIs(t, err, readFail)
	_, err = svc.Create(ctx, "x")
	require.ErrorIs(t, err, readFail)
	_, err = svc.Update(ctx, "a", todo.Patch{})
	require.ErrorIs(t, err, readFail)
	require.ErrorIs(t, svc.Delete(ctx, "a"), readFail)

	svc = New(brokenStore{writeErr: writeFail})
	_, err = svc.Create(ctx, "x")
	var se *store.Error
	require.True(t, errors.As(err, &se))
	require.Equal(t, "write", se.Op)
	_, err = svc.Update(ctx, "a", todo.Patch{Completed: boolPtr(true)})
	require.ErrorIs(t, err, writeFail)
	require.ErrorIs(t, svc.Delete(ctx, "a"), writeFail)
}

func TestScenarioAgainstFileStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "todos.json"))
	svc := New(st)

	created, err := svc.Create(ctx, "buy milk")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []todo.Todo{*created}, list)

	updated, err := svc.Update(ctx, created.ID, todo.Patch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	require.NoError(t, svc.Delete(ctx, created.ID))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
