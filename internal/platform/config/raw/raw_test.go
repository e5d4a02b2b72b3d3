package raw

import "testing"

func TestConf_LoggerKeys(t *testing.T) {
	t.Setenv("LOG_LEVEL", " info ")
	t.Setenv("LOG_CALLER", "YES")
	t.Setenv("LOG_COLOR", "0")
	t.Setenv("LOG_SAMPLE_EVERY", " 7 ")
	t.Setenv("LOG_BURST", "12x")
	t.Setenv("LOG_DROP", "-5")
	t.Setenv("API_LOG_FORMAT", "json")

	log := New().Prefix("LOG_")

	if got := log.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("LEVEL = %q", got)
	}
	if got := log.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("FORMAT default = %q", got)
	}
	if got := New().Prefix("API_").Prefix("LOG_").Get("FORMAT", ""); got != "json" {
		t.Fatalf("nested prefix = %q", got)
	}

	bools := []struct {
		key       string
		def, want bool
	}{
		{"CALLER", false, true},
		{"COLOR", true, false},
		{"MISSING", true, true},
	}
	for _, b := range bools {
		if got := log.GetBool(b.key, b.def); got != b.want {
			t.Fatalf("GetBool(%q) = %v", b.key, got)
		}
	}

	ints := map[string]int{"SAMPLE_EVERY": 7, "BURST": 9, "DROP": 9, "MISSING": 9}
	for key, want := range ints {
		if got := log.GetInt(key, 9); got != want {
			t.Fatalf("GetInt(%q) = %d, want %d", key, got, want)
		}
	}
}
