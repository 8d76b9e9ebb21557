package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Assignment Organizer API",
        "description": "Shared calendars and assignment tracking for classes",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"Bearer": []}],
    "tags": [
        {"name": "Profile", "description": "Current student and calendar colors"},
        {"name": "Events", "description": "Aggregated personal and class events"},
        {"name": "Assignments", "description": "Creating, checking and importing assignments"},
        {"name": "Classes", "description": "Class directory and enrollment"}
    ],
    "paths": {
        "/me": {
            "get": {
                "tags": ["Profile"],
                "summary": "Current student profile with enrolled classes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/colors": {
            "get": {
                "tags": ["Profile"],
                "summary": "Resolve the personal calendar color",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Profile"],
                "summary": "Set the personal calendar color",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetColorRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "400": {"description": "Invalid color"}
                }
            }
        },
        "/colors/{name}": {
            "get": {
                "tags": ["Profile"],
                "summary": "Resolve the color of a class calendar",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Profile"],
                "summary": "Set the color of an enrolled class",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetColorRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not enrolled"}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Events from the personal calendar and every enrolled class",
                "parameters": [
                    {"name": "day", "in": "query", "type": "integer"},
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EventList"}},
                    "303": {"description": "Calendar provider unavailable"}
                }
            }
        },
        "/events/upcoming": {
            "get": {
                "tags": ["Events"],
                "summary": "Events that have not ended yet",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EventList"}},
                    "404": {"description": "Unknown class"}
                }
            }
        },
        "/events/feed.ics": {
            "get": {
                "tags": ["Events"],
                "summary": "iCalendar feed of upcoming events",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "token", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/todo": {
            "get": {
                "tags": ["Events"],
                "summary": "Upcoming events decorated with color, check state and due label",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Create a personal or class assignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the class professor"}
                }
            }
        },
        "/assignments/{class}/{eventId}/toggle": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Delete an owned assignment or toggle its checked state",
                "parameters": [
                    {"name": "class", "in": "path", "required": true, "type": "string", "description": "class name or 'personal'"},
                    {"name": "eventId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToggleAssignmentResult"}}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "Enrolled and available classes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create a class (professors only)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Name taken"}
                }
            }
        },
        "/classes/{name}/enroll": {
            "post": {
                "tags": ["Classes"],
                "summary": "Enroll in a class",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Enrolled"},
                    "404": {"description": "Unknown class"}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Leave a class",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Unenrolled"}
                }
            }
        },
        "/classes/{name}/roster": {
            "get": {
                "tags": ["Classes"],
                "summary": "Students enrolled in a class the caller teaches",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the class professor"}
                }
            }
        },
        "/classes/{name}/syllabus": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Queue a CSV syllabus import (professors only)",
                "consumes": ["multipart/form-data", "text/csv"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/SyllabusImportResult"}},
                    "400": {"description": "Malformed syllabus"}
                }
            }
        }
    },
    "definitions": {
        "SetColorRequest": {
            "type": "object",
            "properties": {
                "color": {"type": "string", "example": "#3366ff"}
            },
            "required": ["color"]
        },
        "CreateClassRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["name"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "className": {"type": "string"},
                "summary": {"type": "string"},
                "estimate": {"type": "string"},
                "date": {"type": "string", "format": "date"}
            },
            "required": ["summary", "date"]
        },
        "ToggleAssignmentResult": {
            "type": "object",
            "properties": {
                "eventId": {"type": "string"},
                "deleted": {"type": "boolean"},
                "checked": {"type": "boolean"}
            }
        },
        "SyllabusImportResult": {
            "type": "object",
            "properties": {
                "jobId": {"type": "string"},
                "className": {"type": "string"},
                "assignments": {"type": "integer"}
            }
        },
        "Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "summary": {"type": "string"},
                "description": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "origin": {"type": "string", "x-nullable": true}
            }
        },
        "EventList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Event"}},
                "meta": {"type": "object"}
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
