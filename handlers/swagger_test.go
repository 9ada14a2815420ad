package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todolist/todo-service/internal/todo"
)

func fetchDoc(t *testing.T) map[string]interface{} {
	t.Helper()
	g := gin.New()
	RegisterSwagger(g)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc), "doc.json must be valid JSON")
	return doc
}

func TestSwaggerIndex(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
	assert.Contains(t, w.Body.String(), "/swagger/doc.json")
}

func TestSwaggerDocumentsTodoRoutes(t *testing.T) {
	doc := fetchDoc(t)
	require.Equal(t, "3.0.0", doc["openapi"])

	paths := doc["paths"].(map[string]interface{})
	collection := paths["/api/todos"].(map[string]interface{})
	assert.Contains(t, collection, "get")
	assert.Contains(t, collection, "post")

	item := paths["/api/todos/{id}"].(map[string]interface{})
	assert.Contains(t, item, "put")
	assert.Contains(t, item, "delete")

	del := item["delete"].(map[string]interface{})["responses"].(map[string]interface{})
	assert.Contains(t, del, "204")
	assert.Contains(t, del, "404")
}

// The documented schema must list exactly the fields the API serializes.
func TestSwaggerTodoSchemaMatchesModel(t *testing.T) {
	doc := fetchDoc(t)
	schema := doc["components"].(map[string]interface{})["schemas"].(map[string]interface{})["Todo"].(map[string]interface{})

	var documented []string
	for name := range schema["properties"].(map[string]interface{}) {
		documented = append(documented, name)
	}
	sort.Strings(documented)

	b, err := json.Marshal(todo.Todo{ID: "x", Text: "y", CreatedAt: time.Unix(0, 0)})
	require.NoError(t, err)
	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &wire))
	var serialized []string
	for name := range wire {
		serialized = append(serialized, name)
	}
	sort.Strings(serialized)

	assert.Equal(t, serialized, documented)
}
