//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"covtrend/internal/core/chart"
	"covtrend/internal/platform/config"
	perr "covtrend/internal/platform/errors"

	docs "covtrend/internal/services/api/docs"
)

// SpecMutator lets modules tweak the parsed swagger spec before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a spec mutator, call it from module init
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		asOAS3(spec, "/api/v1")
		if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		schemas := section(section(spec, "components"), "schemas")
		if _, ok := schemas["ErrorResponse"]; !ok {
			schemas["ErrorResponse"] = errorEnvelope
		}
		schemas["ChartEnums"] = chartEnums()

		eachOperation(spec, func(responses map[string]any) {
			setDefault(responses, "400", errorResponse("Bad Request", 400, perr.ErrorCodeValidation, chart.KeyGrouping,
				chart.KeyAggFunction+" and "+chart.KeyAggValue+" are required when grouping by month"))
			setDefault(responses, "404", errorResponse("Not Found", 404, perr.ErrorCodeNotFound, chart.KeyOwner, "owner not found"))
			setDefault(responses, "502", errorResponse("Bad Gateway", 502, perr.ErrorCodeUpstream, "", "fetch_records failed"))
			setDefault(responses, "500", errorResponse("Internal Server Error", 500, perr.ErrorCodePanic, "", "panic recovered"))
		})

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// asOAS3 lifts swagger 2 and downsamples 3.1, the ui only renders 3.0
func asOAS3(spec map[string]any, url string) {
	delete(spec, "swagger")
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func section(parent map[string]any, key string) map[string]any {
	m, ok := parent[key].(map[string]any)
	if !ok {
		m = map[string]any{}
		parent[key] = m
	}
	return m
}

func eachOperation(spec map[string]any, fn func(responses map[string]any)) {
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			if op, ok := opAny.(map[string]any); ok {
				fn(section(op, "responses"))
			}
		}
	}
}

func setDefault(responses map[string]any, code string, v any) {
	if _, ok := responses[code]; !ok {
		responses[code] = v
	}
}

// errorEnvelope mirrors net.Reply, keep the two in step
var errorEnvelope = map[string]any{
	"type":        "object",
	"description": "Standard error response",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer", "format": "int32"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"fields": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"request_id": map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

func errorResponse(status string, statusCode int, code perr.ErrorCode, field, msg string) map[string]any {
	example := map[string]any{
		"status_code": statusCode,
		"status":      status,
		"code":        code,
		"error":       msg,
		"request_id":  "579f33bf50b1/abc-000001",
	}
	if field != "" {
		example["fields"] = map[string]any{field: []any{msg}}
	}
	return map[string]any{
		"description": status,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}

// chartEnums publishes the closed value sets the chart validator accepts
func chartEnums() map[string]any {
	enum := func(names []string) map[string]any {
		vals := make([]any, len(names))
		for i, n := range names {
			vals[i] = n
		}
		return map[string]any{"type": "string", "enum": vals}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			chart.KeyGrouping:    enum(chart.GroupingUnitNames()),
			chart.KeyAggFunction: enum(chart.AggFunctionNames()),
			chart.KeyAggValue:    enum(chart.AggMetricNames()),
		},
	}
}
