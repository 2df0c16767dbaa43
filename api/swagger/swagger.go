package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Fishing API",
        "description": "Account lifecycle, scope-based authorization and fishing simulation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Register, acknowledge, login and password flows"},
        {"name": "Users", "description": "Account administration"},
        {"name": "Grants", "description": "Roles, ACLs and scopes"},
        {"name": "Fishery", "description": "Species, fish, waters and fishermen"},
        {"name": "Simulation", "description": "Yearly fishing simulation runs"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created, one-time password mailed"},
                    "422": {"description": "Invalid payload or email already registered"}
                }
            }
        },
        "/auth/acknowledge": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Acknowledge a registration",
                "parameters": [
                    {"name": "email", "in": "query", "type": "string", "required": true},
                    {"name": "token", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Acknowledged"},
                    "401": {"description": "Invalid token"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate and receive bearer tokens",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair in body, Authorization and X-Refresh-Token headers set"},
                    "401": {"description": "Invalid credentials, blocked or blacklisted"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "End the session",
                "responses": {
                    "204": {"description": "Logged out, token headers cleared"},
                    "401": {"description": "Not logged in"}
                }
            }
        },
        "/auth/password/change": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Replace the current credential",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Password changed, account active"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/password/forgot": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Re-issue a one-time password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ForgotPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "One-time password mailed, account inactive"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/me": {
            "get": {
                "tags": ["Users"],
                "summary": "Get the authenticated user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Not logged in"}
                }
            }
        },
        "/roles": {
            "get": {"tags": ["Grants"], "summary": "List roles", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Grants"], "summary": "Create a role", "responses": {"201": {"description": "Created"}}}
        },
        "/acls": {
            "get": {"tags": ["Grants"], "summary": "List acls", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Grants"], "summary": "Create an acl", "responses": {"201": {"description": "Created"}}}
        },
        "/scopes": {
            "get": {"tags": ["Grants"], "summary": "List scopes", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Grants"], "summary": "Create a scope", "responses": {"201": {"description": "Created"}}}
        },
        "/fishspecies": {
            "get": {"tags": ["Fishery"], "summary": "List fish species", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Fishery"], "summary": "Create a fish species", "responses": {"201": {"description": "Created"}}}
        },
        "/fish": {
            "get": {"tags": ["Fishery"], "summary": "List fish", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Fishery"], "summary": "Create a fish", "responses": {"201": {"description": "Created"}}}
        },
        "/fishingwaters": {
            "get": {"tags": ["Fishery"], "summary": "List fishing waters", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Fishery"], "summary": "Create a fishing water", "responses": {"201": {"description": "Created"}}}
        },
        "/fishermen": {
            "get": {"tags": ["Fishery"], "summary": "List fishermen", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Fishery"], "summary": "Create a fisherman", "responses": {"201": {"description": "Created"}}}
        },
        "/simulations": {
            "get": {"tags": ["Simulation"], "summary": "List runs", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Simulation"],
                "summary": "Queue a simulation run",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SimulationParams"}}
                ],
                "responses": {"202": {"description": "Run accepted"}}
            }
        },
        "/simulations/{id}/export": {
            "get": {
                "tags": ["Simulation"],
                "summary": "Export a run report as csv or pdf",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Report file"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password", "password_repeat"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "password_repeat": {"type": "string"}
            }
        },
        "ChangePasswordRequest": {
            "type": "object",
            "required": ["email", "password", "new_password", "new_password_repeated"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "new_password": {"type": "string"},
                "new_password_repeated": {"type": "string"}
            }
        },
        "ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "SimulationParams": {
            "type": "object",
            "required": ["year"],
            "properties": {
                "year": {"type": "integer"},
                "no_of_fishing_days": {"type": "integer"},
                "seed": {"type": "integer"},
                "random_fishermen": {"type": "integer"},
                "random_waters": {"type": "integer"},
                "random_fish_per_species": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
