// Package docs registers the OpenAPI description served under /swagger.
// It is maintained by hand alongside Gateway.SetupRoutes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Service health", "responses": {"200": {"description": "OK"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Staff login", "responses": {"200": {"description": "Token issued"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/verify": {"get": {"tags": ["auth"], "summary": "Verify token", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Valid"}, "401": {"description": "Invalid token"}}}},
        "/auth/change-password": {"post": {"tags": ["auth"], "summary": "Change password", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated"}}}},
        "/orders": {
            "post": {"tags": ["orders"], "summary": "Place a pickup order", "responses": {"200": {"description": "Order placed"}, "400": {"description": "Missing fields"}}},
            "get": {"tags": ["orders"], "summary": "List orders, newest first", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Orders"}}}
        },
        "/orders/stats": {"get": {"tags": ["orders"], "summary": "Order statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Stats"}}}},
        "/orders/adjust-revenue": {"post": {"tags": ["orders"], "summary": "Adjust manual revenue", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "New manual revenue"}}}},
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Get order", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Order"}, "404": {"description": "Order not found"}}},
            "put": {"tags": ["orders"], "summary": "Update status or notes", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated order"}, "404": {"description": "Order not found"}}},
            "delete": {"tags": ["orders"], "summary": "Delete order", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}, "404": {"description": "Order not found"}}}
        },
        "/orders/{id}/audit": {"get": {"tags": ["orders"], "summary": "Order audit trail", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Audit entries"}}}},
        "/content": {
            "get": {"tags": ["content"], "summary": "All site text", "responses": {"200": {"description": "Content map"}}},
            "post": {"tags": ["content"], "summary": "Upsert one key", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Saved"}}}
        },
        "/content/batch": {"post": {"tags": ["content"], "summary": "Upsert many keys", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Saved"}}}},
        "/content/{key}": {
            "get": {"tags": ["content"], "summary": "One site text value", "responses": {"200": {"description": "Value"}, "404": {"description": "Content not found"}}},
            "delete": {"tags": ["content"], "summary": "Delete key", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Deleted"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Fresh Hot Bread API",
	Description:      "Pickup orders, site content and revenue bookkeeping for the bakery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
