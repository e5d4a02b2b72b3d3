package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

const commitsSince = `
	select c.commitid, c.repoid, c."timestamp"
	  from commits c
	 where c."timestamp" >= $1
	   and c.id > $2
	 order by c.id
	 limit $3`

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		commitsSince: `select c.commitid, c.repoid, c."timestamp" from commits c where c."timestamp" >= $1 and c.id > $2 order by c.id limit $3`,
		"set transaction read only": "set transaction read only",
		"\tselect\r\n1 ":            "select 1",
		"":                          "",
	}
	for in, want := range cases {
		if got := compact(in); got != want {
			t.Fatalf("compact(%q) = %q, want %q", in, got, want)
		}
	}
}

type traceLine struct {
	Level     string  `json:"level"`
	Component string  `json:"component"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	Args      []any   `json:"args"`
	Error     string  `json:"error"`
	Message   string  `json:"message"`
}

func TestTracer_Levels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		ev    QueryEvent
		level string
	}{
		{"fast page", QueryEvent{SQL: commitsSince, Args: []any{"2026-03-01", 0, 500}, ElapsedUS: 1250}, "info"},
		{"slow page", QueryEvent{SQL: commitsSince, Args: []any{"2026-03-01", 500, 500}, ElapsedUS: 812000, Slow: true}, "warn"},
		{"failed page", QueryEvent{SQL: commitsSince, ElapsedUS: 3000, Slow: true, Err: errors.New("canceling statement due to statement timeout")}, "error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			// root at error level, the tracer still logs
			Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel)).OnQuery(context.Background(), tc.ev)

			var line traceLine
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
				t.Fatalf("decode %q: %v", buf.String(), err)
			}
			if line.Level != tc.level || line.Component != "pg" || line.Message != "pg query" {
				t.Fatalf("line = %+v", line)
			}
			if line.ElapsedMS != float64(tc.ev.ElapsedUS)/1000 || line.Slow != tc.ev.Slow {
				t.Fatalf("timing = %v/%v", line.ElapsedMS, line.Slow)
			}
			if line.SQL != compact(commitsSince) {
				t.Fatalf("sql = %q", line.SQL)
			}
			if tc.ev.Err != nil && line.Error != tc.ev.Err.Error() {
				t.Fatalf("error = %q", line.Error)
			}
			if args, _ := tc.ev.Args.([]any); len(line.Args) != len(args) {
				t.Fatalf("args = %v", line.Args)
			}
		})
	}
}
