// Package docs holds the Swagger specification served at /swagger.
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
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "User created", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Invalid input or user already exists", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [
                    {"description": "User login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/api/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Get user profile",
                "responses": {
                    "200": {"description": "User profile", "schema": {"$ref": "#/definitions/handlers.ProfileResponse"}},
                    "401": {"description": "No token", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "403": {"description": "Invalid token", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List expenses",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handlers.ExpenseResponse"}}},
                    "401": {"description": "No token", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "403": {"description": "Invalid token", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Create expense",
                "parameters": [
                    {"description": "Expense", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.ExpenseResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/expenses/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Get expense",
                "parameters": [{"type": "string", "description": "Expense ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ExpenseResponse"}},
                    "404": {"description": "Expense not found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Update expense",
                "description": "Replaces title, amount, category, date and notes",
                "parameters": [
                    {"type": "string", "description": "Expense ID", "name": "id", "in": "path", "required": true},
                    {"description": "Expense", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ExpenseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ExpenseResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "404": {"description": "Expense not found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Delete expense",
                "parameters": [{"type": "string", "description": "Expense ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Expense not found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/summary/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Expense totals by category",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/services.CategoryTotal"}}}
                }
            }
        },
        "/api/habits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "List habits",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Habit"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Create habit",
                "parameters": [
                    {"description": "Habit", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.HabitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Habit"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        },
        "/api/habits/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Get habit",
                "parameters": [{"type": "string", "description": "Habit ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Habit"}},
                    "404": {"description": "Habit not found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Update habit",
                "parameters": [
                    {"type": "string", "description": "Habit ID", "name": "id", "in": "path", "required": true},
                    {"description": "Habit", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.HabitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Habit"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errors.Response"}},
                    "404": {"description": "Habit not found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Delete habit",
                "parameters": [{"type": "string", "description": "Habit ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Habit not found", "schema": {"$ref": "#/definitions/errors.Response"}}
                }
            }
        }
    },
    "definitions": {
        "errors.Response": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handlers.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 255},
                "name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 128}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "id": {"type": "string"}, "name": {"type": "string"}}
        },
        "handlers.AuthResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/handlers.UserResponse"}
            }
        },
        "handlers.ProfileResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/handlers.UserResponse"}}
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {"database": {"type": "string"}, "status": {"type": "string"}}
        },
        "handlers.ExpenseRequest": {
            "type": "object",
            "required": ["amount", "category", "date", "title"],
            "properties": {
                "amount": {"type": "number"},
                "category": {"type": "string", "maxLength": 100},
                "date": {"type": "string", "example": "2024-01-01"},
                "notes": {"type": "string", "maxLength": 1000},
                "title": {"type": "string", "maxLength": 200}
            }
        },
        "handlers.ExpenseResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "date": {"type": "string"},
                "id": {"type": "string"},
                "notes": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "handlers.HabitRequest": {
            "type": "object",
            "required": ["frequency", "name"],
            "properties": {
                "description": {"type": "string", "maxLength": 500},
                "frequency": {"type": "string", "enum": ["daily", "weekly", "monthly"]},
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "models.Habit": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "frequency": {"type": "string", "enum": ["daily", "weekly", "monthly"]},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "services.CategoryTotal": {
            "type": "object",
            "properties": {"category": {"type": "string"}, "count": {"type": "integer"}, "total": {"type": "number"}}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fintrack API",
	Description:      "Personal expense and habit tracking with bearer-token authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
