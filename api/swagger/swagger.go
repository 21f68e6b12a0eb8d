package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CGPA Planner API",
        "description": "GPA, CGPA and target planning for Nigerian university grading scales.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Calculations", "description": "Stateless semester and cumulative GPA"},
        {"name": "Plans", "description": "Required GPAs for a target CGPA"},
        {"name": "Records", "description": "Saved semesters, summaries and transcripts"}
    ],
    "paths": {
        "/scales": {
            "get": {
                "tags": ["Calculations"],
                "summary": "List grading scales",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calculations/semester": {
            "post": {
                "tags": ["Calculations"],
                "summary": "Compute a semester GPA",
                "description": "Skipped course lines are listed under rejected. gpa is null when no valid entries remain.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SemesterCalculationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calculations/cgpa": {
            "post": {
                "tags": ["Calculations"],
                "summary": "Compute a CGPA across sessions",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CGPACalculationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans": {
            "post": {
                "tags": ["Plans"],
                "summary": "Plan the GPAs needed for a target CGPA",
                "description": "An unreachable target returns feasibility INFEASIBLE together with bestAchievableCgpa.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid plan", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userId}/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List saved semesters",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Records"],
                "summary": "Compute and save a semester",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveRecordRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No valid course entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userId}/records/{id}": {
            "get": {
                "tags": ["Records"],
                "summary": "Get a saved semester",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userId}/summary": {
            "get": {
                "tags": ["Records"],
                "summary": "CGPA over saved semesters",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"},
                    {"name": "scale", "in": "query", "type": "string", "enum": ["FIVE_POINT", "FOUR_POINT"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userId}/transcript": {
            "get": {
                "tags": ["Records"],
                "summary": "Download a transcript",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "scale", "in": "query", "type": "string", "enum": ["FIVE_POINT", "FOUR_POINT"]}
                ],
                "responses": {
                    "200": {"description": "Transcript file", "schema": {"type": "file"}},
                    "422": {"description": "No saved semesters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CourseInput": {
            "type": "object",
            "required": ["units"],
            "properties": {
                "title": {"type": "string"},
                "grade": {"type": "string", "example": "A"},
                "test": {"type": "number", "minimum": 0, "maximum": 100},
                "exam": {"type": "number", "minimum": 0, "maximum": 100},
                "units": {"type": "integer", "minimum": 1, "maximum": 6}
            }
        },
        "SemesterCalculationRequest": {
            "type": "object",
            "properties": {
                "scale": {"type": "string", "enum": ["FIVE_POINT", "FOUR_POINT"]},
                "mode": {"type": "string", "enum": ["grade", "score"]},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseInput"}}
            }
        },
        "SemesterInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "mode": {"type": "string", "enum": ["grade", "score"]},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseInput"}}
            }
        },
        "SessionInput": {
            "type": "object",
            "required": ["semesters"],
            "properties": {
                "name": {"type": "string"},
                "semesters": {"type": "array", "items": {"$ref": "#/definitions/SemesterInput"}}
            }
        },
        "CGPACalculationRequest": {
            "type": "object",
            "required": ["sessions"],
            "properties": {
                "scale": {"type": "string", "enum": ["FIVE_POINT", "FOUR_POINT"]},
                "mode": {"type": "string", "enum": ["grade", "score"]},
                "prior": {
                    "type": "object",
                    "properties": {
                        "cgpa": {"type": "number"},
                        "units": {"type": "integer"}
                    }
                },
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/SessionInput"}}
            }
        },
        "PlanRequest": {
            "type": "object",
            "required": ["futureUnitLoads"],
            "properties": {
                "scale": {"type": "string", "enum": ["FIVE_POINT", "FOUR_POINT"]},
                "currentCgpa": {"type": "number"},
                "completedUnits": {"type": "integer"},
                "futureUnitLoads": {"type": "array", "items": {"type": "integer", "minimum": 1}},
                "targetCgpa": {"type": "number"},
                "skew": {"type": "number", "description": "Spread of the two skewed scenarios, defaults to 0.1"}
            }
        },
        "SaveRecordRequest": {
            "type": "object",
            "required": ["academicYear", "semesterName", "courses"],
            "properties": {
                "academicYear": {"type": "string", "example": "2023/2024"},
                "semesterName": {"type": "string", "example": "First"},
                "scale": {"type": "string", "enum": ["FIVE_POINT", "FOUR_POINT"]},
                "mode": {"type": "string", "enum": ["grade", "score"]},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseInput"}}
            }
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
