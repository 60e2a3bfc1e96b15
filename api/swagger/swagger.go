package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "WasteWise API",
        "description": "Community waste reporting and pickup coordination backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Signup, login and session management"},
        {"name": "WasteReports", "description": "Resident waste reports and team assignment"},
        {"name": "PickupRequests", "description": "Pickup scheduling and collector assignment"},
        {"name": "Pickups", "description": "Report-linked collection visits"},
        {"name": "CleanupTeams", "description": "Staff roster of cleanup teams"},
        {"name": "WasteCollectors", "description": "Collector roster and live location"},
        {"name": "Notifications", "description": "Per-user notification feed"},
        {"name": "Dashboard", "description": "Resident and admin summaries"},
        {"name": "Education", "description": "Articles, quizzes and attempts"},
        {"name": "Forum", "description": "Moderated community forum"},
        {"name": "FAQs", "description": "Frequently asked questions"},
        {"name": "Media", "description": "Signed attachment downloads"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate username or email"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials or inactive account"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate refresh token",
                "responses": {
                    "200": {"description": "New token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Revoked or expired refresh token"}
                }
            }
        },
        "/waste-reports": {
            "get": {
                "tags": ["WasteReports"],
                "summary": "List waste reports",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "waste_type", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["WasteReports"],
                "summary": "Submit waste report",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "waste_type", "in": "formData", "required": true, "type": "string"},
                    {"name": "media", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/waste-reports/{id}/assign_team": {
            "post": {
                "tags": ["WasteReports"],
                "summary": "Assign cleanup team",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignTeamRequest"}}
                ],
                "responses": {
                    "200": {"description": "Team assigned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Staff only"},
                    "404": {"description": "Report or team not found"}
                }
            }
        },
        "/waste-reports/{id}/tracking_history": {
            "get": {
                "tags": ["WasteReports"],
                "summary": "Report lifecycle timeline",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/waste-reports/export": {
            "get": {
                "tags": ["WasteReports"],
                "summary": "Export reports as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "403": {"description": "Staff only"}
                }
            }
        },
        "/pickup-requests": {
            "get": {
                "tags": ["PickupRequests"],
                "summary": "List pickup requests",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "waste_type", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["PickupRequests"],
                "summary": "Request pickup",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePickupRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Pickup date in the past"}
                }
            }
        },
        "/pickup-requests/{id}/assign_collector": {
            "post": {
                "tags": ["PickupRequests"],
                "summary": "Assign collector",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignCollectorRequest"}}
                ],
                "responses": {
                    "200": {"description": "Collector assigned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Staff only"},
                    "404": {"description": "Request missing or collector unavailable"}
                }
            }
        },
        "/dashboard/user": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Resident dashboard",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/admin": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Admin dashboard",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Staff only"}
                }
            }
        },
        "/quizzes/{id}/submit_attempt": {
            "post": {
                "tags": ["Education"],
                "summary": "Submit quiz answers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QuizSubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "Graded attempt", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Quiz not found"}
                }
            }
        },
        "/media/{token}": {
            "get": {
                "tags": ["Media"],
                "summary": "Download attachment",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "404": {"description": "Expired, forged or missing"}
                }
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"}
            },
            "required": ["username", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "AssignTeamRequest": {
            "type": "object",
            "properties": {
                "team_id": {"type": "string"}
            },
            "required": ["team_id"]
        },
        "AssignCollectorRequest": {
            "type": "object",
            "properties": {
                "collector_id": {"type": "string"}
            },
            "required": ["collector_id"]
        },
        "CreatePickupRequestRequest": {
            "type": "object",
            "properties": {
                "waste_type": {"type": "string"},
                "pickup_date": {"type": "string", "format": "date"},
                "pickup_time": {"type": "string"},
                "address": {"type": "string"},
                "instructions": {"type": "string"},
                "quantity_estimate": {"type": "number"}
            },
            "required": ["waste_type", "pickup_date", "address"]
        },
        "QuizSubmitRequest": {
            "type": "object",
            "properties": {
                "answers": {
                    "type": "object",
                    "additionalProperties": {"type": "string"}
                }
            },
            "required": ["answers"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
