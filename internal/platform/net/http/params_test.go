package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestURLParam(t *testing.T) {
	t.Parallel()

	var got string
	mux := chi.NewRouter()
	r := AdaptChi(mux)
	r.Get("/charts/{service}", func(w http.ResponseWriter, req *http.Request) {
		got = URLParam(req, "service")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/charts/gh", nil))
	if got != "gh" {
		t.Fatalf("URLParam=%q want gh", got)
	}
	if v := URLParam(httptest.NewRequest(http.MethodGet, "/", nil), "service"); v != "" {
		t.Fatalf("unrouted request should have no params, got %q", v)
	}
}
