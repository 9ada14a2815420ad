package todo

import (
	"encoding/json"
	"sort"
	"time"
)

// TimeLayout is the wire form of CreatedAt: UTC with exactly three fractional
// digits, so timestamps compare correctly as strings.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Todo is the persisted to-do record. ID and CreatedAt are assigned once at
// creation and never change afterwards.
type Todo struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Completed bool      `json:"completed" bson:"completed"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// MarshalJSON writes CreatedAt in TimeLayout. Decoding uses the default
// RFC 3339 parser, which accepts it.
func (t Todo) MarshalJSON() ([]byte, error) {
	type plain Todo
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"createdAt"`
	}{plain(t), t.CreatedAt.UTC().Format(TimeLayout)})
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Apply merges the non-nil fields of p onto t.
func (p Patch) Apply(t *Todo) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// SortNewestFirst orders todos by CreatedAt, most recent first.
func SortNewestFirst(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
}

// Clone returns a copy of todos that shares no backing array with the input.
// A nil input yields an empty, non-nil slice.
func Clone(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)
	return out
}
