package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/todolist/todo-service/internal/todo"
	"github.com/todolist/todo-service/internal/todo/service"
	"github.com/todolist/todo-service/pkg/logger"
	"github.com/todolist/todo-service/pkg/metrics"
)

// failure messages returned with a 500, keyed by operation
var failMessages = map[string]string{
	"list":   "failed to list todos",
	"create": "failed to create todo",
	"update": "failed to update todo",
	"delete": "failed to delete todo",
}

type todoHandler struct {
	svc *service.Service
}

// RegisterTodoRoutes mounts the todo REST API under /api/todos.
func RegisterTodoRoutes(r gin.IRouter, svc *service.Service) {
	h := &todoHandler{svc: svc}
	g := r.Group("/api/todos")
	// both /api/todos and /api/todos/ answer directly, without a redirect
	for _, path := range []string{"", "/"} {
		g.GET(path, observe("list"), h.list)
		g.POST(path, observe("create"), h.create)
	}
	g.PUT("/:id", observe("update"), h.update)
	g.DELETE("/:id", observe("delete"), h.delete)
}

// observe records the latency of one operation.
func observe(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (h *todoHandler) list(c *gin.Context) {
	todos, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	metrics.Requests.WithLabelValues("list", "ok").Inc()
	c.JSON(http.StatusOK, todos)
}

func (h *todoHandler) create(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.Requests.WithLabelValues("create", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	metrics.Requests.WithLabelValues("create", "ok").Inc()
	c.JSON(http.StatusCreated, t)
}

func (h *todoHandler) update(c *gin.Context) {
	id := c.Param("id")
	var p todo.Patch
	// an empty body is an empty patch
	if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		metrics.Requests.WithLabelValues("update", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": err.Error()})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, p)
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	metrics.Requests.WithLabelValues("update", "ok").Inc()
	c.JSON(http.StatusOK, t)
}

func (h *todoHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete", err)
		return
	}
	metrics.Requests.WithLabelValues("delete", "ok").Inc()
	c.Status(http.StatusNoContent)
}

// fail maps service errors onto status codes: validation 400, not found 404,
// anything else (store failures) 500.
func (h *todoHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case service.IsValidation(err):
		metrics.Requests.WithLabelValues(op, "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case service.IsNotFound(err):
		metrics.Requests.WithLabelValues(op, "not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		metrics.Requests.WithLabelValues(op, "error").Inc()
		log := logger.With("op", op, "method", c.Request.Method)
		if id := c.Param("id"); id != "" {
			log = log.With("id", id)
		}
		log.Errorf("todo request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": failMessages[op], "error": err.Error()})
	}
}
