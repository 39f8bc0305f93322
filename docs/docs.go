// Package docs registers the OpenAPI document served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Mind Saathi"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/moods/users": {
            "get": {
                "description": "Returns one entry per user, named from their latest record, sorted case-insensitively by display name.",
                "produces": ["application/json"],
                "tags": ["moods"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UsersResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/moods/averages": {
            "get": {
                "description": "Mean normalized mood vector. Categorical records count as one-hot vectors.",
                "produces": ["application/json"],
                "tags": ["moods"],
                "summary": "Mood averages",
                "parameters": [
                    {"type": "string", "description": "User id, or all (default)", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AveragesResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/moods/daily": {
            "get": {
                "description": "Mean normalized mood vector per calendar day (UTC), ascending.",
                "produces": ["application/json"],
                "tags": ["moods"],
                "summary": "Daily mood series",
                "parameters": [
                    {"type": "string", "description": "User id, or all (default)", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SeriesResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/moods/counts": {
            "get": {
                "description": "Counts labelled records when any exist, otherwise counts positive numeric fields.",
                "produces": ["application/json"],
                "tags": ["moods"],
                "summary": "Mood counts",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "userId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CountsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/moods/daily-mood": {
            "get": {
                "description": "Best mood of each day's latest record, ascending by date.",
                "produces": ["application/json"],
                "tags": ["moods"],
                "summary": "Daily mood",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "userId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DailyMoodResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/moods/entries": {
            "get": {
                "description": "Most recent records first. limit defaults to 200 and is clamped to 1..1000.",
                "produces": ["application/json"],
                "tags": ["moods"],
                "summary": "Mood entries",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "userId", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum entries (1-1000, default 200)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.EntriesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/alerts/check": {
            "post": {
                "description": "Computes the longest run of consecutive sad entries and sends an SMS when it reaches the threshold. Ignores the scheduler cooldown. An unconfigured SMS gateway is reported with alerted=false and a reason.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["alerts"],
                "summary": "Check sad streak",
                "parameters": [
                    {"type": "string", "description": "User id (or in the JSON body)", "name": "userId", "in": "query"},
                    {"type": "string", "description": "Recipient override (or in the JSON body)", "name": "phone", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/alerts.StreakResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "mood.Vector": {
            "type": "object",
            "properties": {
                "angry": {"type": "number"}, "sad": {"type": "number"}, "happy": {"type": "number"},
                "calm": {"type": "number"}, "tired": {"type": "number"}
            }
        },
        "mood.Counts": {
            "type": "object",
            "properties": {
                "angry": {"type": "integer"}, "sad": {"type": "integer"}, "happy": {"type": "integer"},
                "calm": {"type": "integer"}, "tired": {"type": "integer"}
            }
        },
        "handler.UsersResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"type": "object", "properties": {
                    "userId": {"type": "string"}, "displayName": {"type": "string"}
                }}}
            }
        },
        "handler.AveragesResponse": {
            "type": "object",
            "properties": {
                "scope": {"type": "string", "enum": ["all", "user"]},
                "userId": {"type": "string"},
                "data": {"type": "object", "properties": {
                    "angry": {"type": "number"}, "sad": {"type": "number"}, "happy": {"type": "number"},
                    "calm": {"type": "number"}, "tired": {"type": "number"}, "count": {"type": "integer"}
                }}
            }
        },
        "handler.SeriesResponse": {
            "type": "object",
            "properties": {
                "scope": {"type": "string", "enum": ["all", "user"]},
                "userId": {"type": "string"},
                "series": {"type": "array", "items": {"type": "object", "properties": {
                    "date": {"type": "string"}, "angry": {"type": "number"}, "sad": {"type": "number"},
                    "happy": {"type": "number"}, "calm": {"type": "number"}, "tired": {"type": "number"}
                }}}
            }
        },
        "handler.CountsResponse": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "counts": {"$ref": "#/definitions/mood.Counts"},
                "shape": {"type": "string", "enum": ["categorical", "numeric"]}
            }
        },
        "handler.DailyMoodResponse": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "days": {"type": "array", "items": {"type": "object", "properties": {
                    "date": {"type": "string"},
                    "mood": {"type": "string", "enum": ["angry", "sad", "happy", "calm", "tired", "none"]}
                }}}
            }
        },
        "handler.EntriesResponse": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "count": {"type": "integer"},
                "entries": {"type": "array", "items": {"type": "object", "properties": {
                    "date": {"type": "string", "format": "date-time"},
                    "bestMood": {"type": "string"},
                    "moodRaw": {"type": "string"},
                    "angry": {"type": "number"}, "sad": {"type": "number"}, "happy": {"type": "number"},
                    "calm": {"type": "number"}, "tired": {"type": "number"}
                }}}
            }
        },
        "alerts.StreakResult": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "name": {"type": "string"},
                "maxConsecutiveSad": {"type": "integer"},
                "alerted": {"type": "boolean"},
                "smsSid": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "object", "properties": {
                    "code": {"type": "string"}, "message": {"type": "string"}, "detail": {"type": "string"}
                }}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Mind Saathi Admin API",
	Description:      "Mood analytics for the caregiver dashboard and on-demand sad-streak alerts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
