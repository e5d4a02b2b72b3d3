package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type missingError string

func (e missingError) Error() string { return "missing required setting: " + string(e) }

func errMissing(key string) error { return missingError(key) }

// parseParams merges a json params file with key=value overrides
// values that decode as json (lists, numbers, bools, null) keep their type, the rest are strings
func parseParams(file string, kvs []string) (map[string]any, error) {
	params := map[string]any{}
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("params file: %w", err)
		}
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, fmt.Errorf("params file %s: %w", file, err)
		}
		if params == nil {
			params = map[string]any{}
		}
	}
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("bad --param %q, want key=value", kv)
		}
		params[k] = paramValue(v)
	}
	return params, nil
}

func paramValue(v string) any {
	var out any
	if err := json.Unmarshal([]byte(v), &out); err == nil {
		return out
	}
	return v
}
