// Package docs holds the Swagger description served at /swagger. Regenerate
// with `swag init -g cmd/gl_backend/main.go -o cmd/docs` after changing
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/tenants/{tenant_id}/entries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "List journal entries",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "nextToken", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Post a journal entry",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "entry", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Entry rejected"},
                    "503": {"description": "Ledger busy, retry"}
                }
            }
        },
        "/tenants/{tenant_id}/entries/{entry_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Get a journal entry",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "entry_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tenants/{tenant_id}/entries/{entry_id}/reverse": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Reverse a posted entry",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "entry_id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already reversed or not posted"}}
            }
        },
        "/tenants/{tenant_id}/drafts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Stage a draft entry",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"name": "entry", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tenants/{tenant_id}/drafts/{entry_id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Replace a draft entry",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "entry_id", "in": "path", "required": true},
                    {"name": "entry", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the creator"}, "409": {"description": "Not a draft"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Discard a draft entry",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "entry_id", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Not a draft"}}
            }
        },
        "/tenants/{tenant_id}/drafts/{entry_id}/post": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Post a staged draft",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "entry_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Entry rejected"}}
            }
        },
        "/tenants/{tenant_id}/accounts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["accounts"],
                "summary": "List the tenant's chart of accounts",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tenants/{tenant_id}/accounts/{account_id}/balance": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["accounts"],
                "summary": "Get an account balance",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "account_id", "in": "path", "required": true},
                    {"type": "string", "name": "asOf", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tenants/{tenant_id}/trial-balance": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Get the trial balance",
                "parameters": [
                    {"type": "string", "name": "tenant_id", "in": "path", "required": true},
                    {"type": "string", "name": "start", "in": "query", "required": true},
                    {"type": "string", "name": "end", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad dates"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "General Ledger API",
	Description:      "Double-entry posting, reversal and reporting for multi-tenant ledgers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
