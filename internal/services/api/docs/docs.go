// Package docs holds the OpenAPI document served by swaggerkit under the swag build tag
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/charts/{service}/{owner_username}/coverage/repository": {
            "post": {
                "tags": ["Charts"],
                "summary": "Coverage per repository over time",
                "operationId": "chartRepository",
                "parameters": [
                    {"name": "service", "in": "path", "required": true, "schema": {"type": "string", "example": "github"}},
                    {"name": "owner_username", "in": "path", "required": true, "schema": {"type": "string"}},
                    {"name": "X-User-ID", "in": "header", "required": false, "schema": {"type": "integer"}}
                ],
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/ChartParams"}}}},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/RepositoryChart"}}}}
                }
            }
        },
        "/charts/{service}/{owner_username}/coverage/organization": {
            "post": {
                "tags": ["Charts"],
                "summary": "Weighted coverage across an organization's repositories",
                "operationId": "chartOrganization",
                "parameters": [
                    {"name": "service", "in": "path", "required": true, "schema": {"type": "string", "example": "github"}},
                    {"name": "owner_username", "in": "path", "required": true, "schema": {"type": "string"}},
                    {"name": "X-User-ID", "in": "header", "required": false, "schema": {"type": "integer"}}
                ],
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/ChartParams"}}}},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/OrganizationChart"}}}}
                }
            }
        },
        "/meta/health": {"get": {"tags": ["Meta"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
        "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness with dependency checks", "responses": {"200": {"description": "ok"}, "503": {"description": "a dependency check failed"}}}},
        "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
        "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}},
        "/meta/engine": {"get": {"tags": ["Meta"], "summary": "Chart engine limits and build", "responses": {"200": {"description": "ok"}}}}
    },
    "components": {
        "schemas": {
            "ChartParams": {
                "type": "object",
                "properties": {
                    "repositories": {"type": "array", "items": {"type": "string"}},
                    "branch": {"type": "string"},
                    "start_date": {"type": "string", "example": "2026-01-01"},
                    "end_date": {"type": "string", "example": "2026-03-31"},
                    "grouping_unit": {"type": "string", "enum": ["commit", "day", "week", "month", "quarter", "year"]},
                    "agg_function": {"type": "string", "enum": ["min", "max"]},
                    "agg_value": {"type": "string", "enum": ["coverage", "complexity", "timestamp"]},
                    "coverage_timestamp_ordering": {"type": "string", "enum": ["increasing", "decreasing"]}
                },
                "required": ["grouping_unit"]
            },
            "Point": {
                "type": "object",
                "properties": {
                    "date": {"type": "string", "format": "date-time"},
                    "repository_id": {"type": "integer"},
                    "repository": {"type": "string"},
                    "commitid": {"type": "string"},
                    "branch": {"type": "string"},
                    "commit_timestamp": {"type": "string", "format": "date-time"},
                    "carried_forward": {"type": "boolean"},
                    "total_lines": {"type": "integer"},
                    "total_hits": {"type": "integer"},
                    "total_misses": {"type": "integer"},
                    "total_partials": {"type": "integer"},
                    "coverage": {"type": "number"},
                    "coverage_change": {"type": "number"}
                }
            },
            "ComplexityPoint": {
                "type": "object",
                "properties": {
                    "date": {"type": "string", "format": "date-time"},
                    "repository_id": {"type": "integer"},
                    "repository": {"type": "string"},
                    "commitid": {"type": "string"},
                    "complexity": {"type": "integer"},
                    "complexity_total": {"type": "integer"},
                    "complexity_ratio": {"type": "number", "nullable": true}
                }
            },
            "AggregatedPoint": {
                "type": "object",
                "properties": {
                    "date": {"type": "string", "format": "date-time"},
                    "repository_count": {"type": "integer"},
                    "total_lines": {"type": "integer"},
                    "total_hits": {"type": "integer"},
                    "total_misses": {"type": "integer"},
                    "total_partials": {"type": "integer"},
                    "weighted_coverage": {"type": "number"},
                    "coverage_change": {"type": "number"},
                    "total_complexity": {"type": "integer"},
                    "total_complexity_total": {"type": "integer"},
                    "complexity_ratio": {"type": "number", "nullable": true}
                }
            },
            "RepositoryChart": {
                "type": "object",
                "properties": {
                    "query_id": {"type": "string"},
                    "coverage": {"type": "array", "items": {"$ref": "#/components/schemas/Point"}},
                    "complexity": {"type": "array", "items": {"$ref": "#/components/schemas/ComplexityPoint"}}
                }
            },
            "OrganizationChart": {
                "type": "object",
                "properties": {
                    "query_id": {"type": "string"},
                    "coverage": {"type": "array", "items": {"$ref": "#/components/schemas/AggregatedPoint"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Covtrend API",
	Description:      "Coverage trend charts per repository and per organization",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
