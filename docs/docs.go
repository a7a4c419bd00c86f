// Package docs holds the OpenAPI description served at /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/upload": {
            "post": {
                "description": "Stores each screenshot, extracts the shifts it lists, scores them against the user's home location and saves them.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload shift screenshots",
                "parameters": [
                    {"type": "file", "description": "Screenshot (repeat for several images)", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "User ID", "name": "userId", "in": "formData", "required": true},
                    {"type": "string", "description": "Origin used for travel scoring", "name": "homeLocation", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Shifts extracted and saved", "schema": {"$ref": "#/definitions/handlers.UploadResponse"}},
                    "400": {"description": "File or user id missing", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "No shifts found in any image", "schema": {"$ref": "#/definitions/handlers.NoShiftsResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/users/{userId}/shifts": {
            "get": {
                "description": "Lists saved shifts, newest first or best ROI first, with summary stats.",
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "List a user's shifts",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true},
                    {"type": "string", "description": "recent (default) or roi", "name": "sort", "in": "query"},
                    {"type": "string", "description": "available, applied, booked or incomplete", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ShiftListResponse"}},
                    "400": {"description": "Unknown sort or status", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/users/{userId}/shifts/export": {
            "get": {
                "description": "Downloads every saved shift as an Excel workbook, best ROI first.",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["shifts"],
                "summary": "Export a user's shifts",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/users/{userId}/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Get a user's profile",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}},
                    "404": {"description": "Profile not found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "patch": {
                "description": "Sets the home location and/or transport mode used for travel scoring.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Update a user's profile",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "profile", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ProfileUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Profile not found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.NoShiftsResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handlers.ShiftListResponse": {
            "type": "object",
            "properties": {
                "shifts": {"type": "array", "items": {"$ref": "#/definitions/models.ShiftRecord"}},
                "summary": {"$ref": "#/definitions/models.ShiftSummary"}
            }
        },
        "handlers.UploadResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "shifts": {"type": "array", "items": {"$ref": "#/definitions/models.ShiftRecord"}},
                "outcomes": {"type": "array", "items": {"$ref": "#/definitions/ingest.ImageOutcome"}},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/ingest.ItemError"}},
                "raw_ocr": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ingest.ImageOutcome": {
            "type": "object",
            "properties": {
                "file": {"type": "string"},
                "outcome": {"type": "string", "enum": ["processed", "no_shifts_found"]},
                "saved": {"type": "integer"}
            }
        },
        "ingest.ItemError": {
            "type": "object",
            "properties": {
                "file": {"type": "string"},
                "index": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "models.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "home_location": {"type": "string"},
                "transport_mode": {"type": "string", "enum": ["driving", "transit", "bicycling", "walking"]},
                "hourly_band_rate": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "models.ProfileUpdate": {
            "type": "object",
            "properties": {
                "home_location": {"type": "string", "maxLength": 200, "minLength": 2},
                "transport_mode": {"type": "string", "enum": ["driving", "transit", "bicycling", "walking"]}
            }
        },
        "models.ShiftRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "upload_id": {"type": "string"},
                "hospital_name": {"type": "string"},
                "ward_name": {"type": "string"},
                "shift_date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "pay_rate": {"type": "number"},
                "total_pay": {"type": "number"},
                "travel_time_minutes": {"type": "integer"},
                "travel_distance_km": {"type": "number"},
                "roi_score": {"type": "number"},
                "raw_text": {"type": "string"},
                "status": {"type": "string", "enum": ["available", "applied", "booked", "incomplete"]},
                "validation_error": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.ShiftSummary": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "total_potential_earnings": {"type": "number"},
                "average_roi": {"type": "number"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ShiftSense API",
	Description:      "Turns rota screenshots into scored, saved shifts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
