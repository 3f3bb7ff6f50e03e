// Package docs registra a especificação OpenAPI servida em /swagger.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/permissions/catalog": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["permissions"],
                "summary": "Permission catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CatalogResponse"}}}
            }
        },
        "/permissions/system-roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["permissions"],
                "summary": "System roles",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.SystemRoleResponse"}}}}
            }
        },
        "/me/permissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["permissions"],
                "summary": "Effective permissions of the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.EffectivePermissionsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/custom-roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["custom-roles"],
                "summary": "List custom roles",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.CustomRoleResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["custom-roles"],
                "summary": "Create custom role",
                "parameters": [{"description": "Custom role", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCustomRoleRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CustomRoleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/custom-roles/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["custom-roles"],
                "summary": "Get custom role",
                "parameters": [{"type": "integer", "description": "Custom role ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CustomRoleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["custom-roles"],
                "summary": "Update custom role",
                "parameters": [
                    {"type": "integer", "description": "Custom role ID", "name": "id", "in": "path", "required": true},
                    {"description": "Changed fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateCustomRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CustomRoleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["custom-roles"],
                "summary": "Delete custom role",
                "parameters": [{"type": "integer", "description": "Custom role ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/role-assignments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Assign role",
                "parameters": [{"description": "Assignment", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AssignRoleRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "parameters": [
                    {"type": "string", "description": "Role reference (editor, custom:12)", "name": "role", "in": "query"},
                    {"type": "integer", "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.UserResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete user",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AssignRoleRequest": {
            "type": "object",
            "required": ["role", "user_id"],
            "properties": {"role": {"type": "string"}, "user_id": {"type": "string"}}
        },
        "dto.CatalogEntry": {
            "type": "object",
            "properties": {"actions": {"type": "array", "items": {"type": "string"}}, "resource": {"type": "string"}}
        },
        "dto.CatalogResponse": {
            "type": "object",
            "properties": {"resources": {"type": "array", "items": {"$ref": "#/definitions/dto.CatalogEntry"}}}
        },
        "dto.CreateCustomRoleRequest": {
            "type": "object",
            "required": ["based_on_role", "name"],
            "properties": {
                "based_on_role": {"type": "string"},
                "description": {"type": "string"},
                "is_default": {"type": "boolean"},
                "name": {"type": "string", "maxLength": 100},
                "permissions": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "dto.UpdateCustomRoleRequest": {
            "type": "object",
            "properties": {
                "based_on_role": {"type": "string"},
                "description": {"type": "string"},
                "is_default": {"type": "boolean"},
                "name": {"type": "string", "maxLength": 100},
                "permissions": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "dto.CustomRoleResponse": {
            "type": "object",
            "properties": {
                "based_on_role": {"type": "string"},
                "created_at": {"type": "string"},
                "created_by_id": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "is_default": {"type": "boolean"},
                "name": {"type": "string"},
                "organization_id": {"type": "string"},
                "permissions": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "role": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.EffectivePermissionsResponse": {
            "type": "object",
            "properties": {
                "organization_id": {"type": "string"},
                "permissions": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "role": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/dto.ValidationError"}},
                "instance": {"type": "string"},
                "status": {"type": "integer"},
                "title": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "dto.SystemRoleResponse": {
            "type": "object",
            "properties": {
                "bypass": {"type": "boolean"},
                "permissions": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "role": {"type": "string"}
            }
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "organization_id": {"type": "string"},
                "role": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.ValidationError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"},
                "tag": {"type": "string"},
                "value": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "AvantPro CMS Authorization API",
	Description:      "Permission catalog, custom roles and role assignment for CMS organizations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
