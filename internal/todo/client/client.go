// Package client talks to the todo REST API and keeps a local cache of the
// last records the server confirmed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/todolist/todo-service/internal/todo"
)

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("todo api: status %d: %s", e.StatusCode, e.Message)
}

// Client is a thin HTTP client for /api/todos.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	var out []todo.Todo
	if err := c.do(ctx, http.MethodGet, c.collection(), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []todo.Todo{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, text string) (*todo.Todo, error) {
	var out todo.Todo
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, c.collection(), body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, p todo.Patch) (*todo.Todo, error) {
	var out todo.Todo
	if err := c.do(ctx, http.MethodPut, c.item(id), p, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.item(id), nil, http.StatusNoContent, nil)
}

func (c *Client) collection() string { return c.baseURL + "/api/todos" }

func (c *Client) item(id string) string { return c.collection() + "/" + url.PathEscape(id) }

func (c *Client) do(ctx context.Context, method, u string, in interface{}, want int, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if b, rerr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); rerr == nil && json.Unmarshal(b, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: unexpected status %d", method, u, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
