package store

import (
	"context"
	"errors"
	"time"

	"github.com/todolist/todo-service/internal/todo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoSet is the single document holding the whole todo set. Replacing one
// document is atomic in MongoDB, which gives WriteAll its all-or-nothing
// behavior without a replica-set transaction.
type mongoSet struct {
	ID        string      `bson:"_id"`
	Items     []todo.Todo `bson:"items"`
	UpdatedAt time.Time   `bson:"updatedAt"`
}

// MongoStore persists the todo set in a MongoDB collection.
type MongoStore struct {
	col   *mongo.Collection
	setID string
}

// NewMongoStore creates a store over col. setID names the document holding
// the set; empty means "todos".
func NewMongoStore(col *mongo.Collection, setID string) *MongoStore {
	if setID == "" {
		setID = "todos"
	}
	return &MongoStore{col: col, setID: setID}
}

func (m *MongoStore) ReadAll(ctx context.Context) ([]todo.Todo, error) {
	var doc mongoSet
	err := m.col.FindOne(ctx, bson.M{"_id": m.setID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []todo.Todo{}, nil
		}
		return nil, readErr("mongo", err)
	}
	if doc.Items == nil {
		return []todo.Todo{}, nil
	}
	for i := range doc.Items {
		doc.Items[i].CreatedAt = doc.Items[i].CreatedAt.UTC()
	}
	return doc.Items, nil
}

func (m *MongoStore) WriteAll(ctx context.Context, todos []todo.Todo) error {
	if todos == nil {
		todos = []todo.Todo{}
	}
	doc := mongoSet{ID: m.setID, Items: todos, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.col.ReplaceOne(ctx, bson.M{"_id": m.setID}, doc, opts); err != nil {
		return writeErr("mongo", err)
	}
	return nil
}
