package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Maktab API",
        "description": "Timetable and lesson scheduling backend for school branches",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Settings", "description": "Branch schooling hours and derived slot layout"},
        {"name": "Timetables", "description": "Recurring weekly templates and their slots"},
        {"name": "Lessons", "description": "Dated lesson instances"},
        {"name": "Availability", "description": "Free subject and room lookups"}
    ],
    "paths": {
        "/branches/{id}/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get branch schedule settings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Settings missing or inconsistent"}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Store branch schedule settings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BranchScheduleSettings"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/branches/{id}/slots": {
            "get": {
                "tags": ["Settings"],
                "summary": "Daily slot layout derived from branch settings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List timetable templates for a branch",
                "parameters": [
                    {"name": "branch", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Create a timetable template",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a timetable template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a template and its slots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetables/{id}/slots": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List slots of a timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "day_of_week", "in": "query", "type": "string", "description": "monday..sunday"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetables"],
                "summary": "Add a recurring slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Class, teacher or room conflict"}
                }
            }
        },
        "/timetables/{id}/slots/{slotId}": {
            "put": {
                "tags": ["Timetables"],
                "summary": "Move or reassign a slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "slotId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Class, teacher or room conflict"}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "slotId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetables/{id}/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Materialise a timetable into dated lessons",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateLessonsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-outcome counters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid or reversed date range"}
                }
            }
        },
        "/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List lessons",
                "parameters": [
                    {"name": "branch", "in": "query", "required": true, "type": "string"},
                    {"name": "class_obj", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Book a single lesson",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Booking conflict"}
                }
            }
        },
        "/lessons/grid": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Lessons grouped for weekly grid rendering",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/export": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Export lessons as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        },
        "/lessons/{id}": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Get a lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "patch": {
                "tags": ["Lessons"],
                "summary": "Edit lesson details",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete a lesson",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/lessons/{id}/status": {
            "patch": {
                "tags": ["Lessons"],
                "summary": "Transition lesson status",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Lesson already completed or cancelled"}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Check subject and room availability",
                "parameters": [
                    {"name": "branch", "in": "query", "required": true, "type": "string"},
                    {"name": "class_obj", "in": "query", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "start_time", "in": "query", "required": true, "type": "string"},
                    {"name": "end_time", "in": "query", "required": true, "type": "string"},
                    {"name": "class_subject", "in": "query", "type": "string"},
                    {"name": "room", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "BranchScheduleSettings": {
            "type": "object",
            "properties": {
                "school_start_time": {"type": "string", "example": "08:00"},
                "school_end_time": {"type": "string", "example": "16:05"},
                "daily_lesson_end_time": {"type": "string"},
                "lesson_duration_minutes": {"type": "integer", "example": 45},
                "break_duration_minutes": {"type": "integer", "example": 10},
                "lunch_break_start": {"type": "string", "example": "12:35"},
                "lunch_break_end": {"type": "string", "example": "13:30"}
            }
        },
        "SlotPayload": {
            "type": "object",
            "properties": {
                "timetable": {"type": "string"},
                "class_obj": {"type": "string"},
                "class_subject": {"type": "string"},
                "day_of_week": {"type": "string", "example": "monday"},
                "lesson_number": {"type": "integer"},
                "start_time": {"type": "string", "example": "08:00:00"},
                "end_time": {"type": "string", "example": "08:45:00"},
                "room": {"type": "string"}
            }
        },
        "GenerateLessonsRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string", "example": "2025-09-01"},
                "end_date": {"type": "string", "example": "2025-12-31"},
                "skip_existing": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
