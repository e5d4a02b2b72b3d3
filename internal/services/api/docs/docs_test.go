package docs

import (
	"encoding/json"
	"testing"
)

func TestReadDoc_IsValidJSON(t *testing.T) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &spec); err != nil {
		t.Fatalf("doc is not valid json: %v", err)
	}
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		t.Fatalf("paths missing")
	}
	if _, ok := paths["/charts/{service}/{owner_username}/coverage/organization"]; !ok {
		t.Fatalf("organization chart path missing")
	}
}
