package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the todo service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>todo-service API docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "todo-service", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Todo": {
        "type": "object",
        "required": ["id", "text", "completed", "createdAt"],
        "properties": {
          "id": { "type": "string" },
          "text": { "type": "string" },
          "completed": { "type": "boolean" },
          "createdAt": { "type": "string", "format": "date-time" }
        }
      },
      "Error": { "type": "object", "properties": { "message": { "type": "string" }, "error": { "type": "string" } } }
    }
  },
  "paths": {
    "/api/todos": {
      "get": {
        "summary": "List todos, newest first",
        "responses": {
          "200": { "description": "all todos", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Todo" } } } } },
          "500": { "description": "store error" }
        }
      },
      "post": {
        "summary": "Create a todo",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "required": ["text"], "properties": { "text": { "type": "string" } } } } } },
        "responses": {
          "201": { "description": "created todo", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Todo" } } } },
          "400": { "description": "text missing or empty" },
          "500": { "description": "store error" }
        }
      }
    },
    "/api/todos/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "put": {
        "summary": "Update text and/or completed",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "text": { "type": "string" }, "completed": { "type": "boolean" } } } } } },
        "responses": {
          "200": { "description": "updated todo", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Todo" } } } },
          "400": { "description": "invalid JSON body" },
          "404": { "description": "unknown id" },
          "500": { "description": "store error" }
        }
      },
      "delete": {
        "summary": "Delete a todo",
        "responses": { "204": { "description": "deleted" }, "404": { "description": "unknown id" }, "500": { "description": "store error" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
