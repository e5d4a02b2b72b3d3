package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "covtrend/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

// tag marks responses so tests can see which middleware ran
func tag(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Stack", name)
			next.ServeHTTP(w, r)
		})
	}
}

func chartRoutes(api Router) {
	api.Route("/charts/{service}/{owner_username}/coverage", func(cr Router) {
		Post(cr, "/organization", func(r *http.Request) (any, error) {
			return map[string]string{"owner": Param(r, "owner_username")}, nil
		})
	})
}

func serve(t *testing.T, m *chi.Mux, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMountAPIV1_PrefixesAndStacks(t *testing.T) {
	m := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(m), []func(http.Handler) http.Handler{tag("a"), tag("b")}, chartRoutes)

	rec := serve(t, m, http.MethodPost, "/api/v1/charts/github/codecov/coverage/organization")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if got := rec.Header().Values("X-Stack"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("middleware order = %v", got)
	}
	if rec := serve(t, m, http.MethodPost, "/charts/github/codecov/coverage/organization"); rec.Code != http.StatusNotFound {
		t.Fatalf("unprefixed route should 404, got %d", rec.Code)
	}
}

func TestMountAPI_TrimsVersionSlash(t *testing.T) {
	m := chi.NewRouter()
	MountAPI(phttp.AdaptChi(m), "/v2", nil, chartRoutes)

	rec := serve(t, m, http.MethodPost, "/api/v2/charts/gitlab/acme/coverage/organization")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Values("X-Stack"); len(got) != 0 {
		t.Fatalf("no middleware expected, got %v", got)
	}
}

func TestMountUnder_ScopesMiddleware(t *testing.T) {
	m := chi.NewRouter()
	r := phttp.AdaptChi(m)
	MountUnder(r, "/internal", []func(http.Handler) http.Handler{tag("internal")}, func(sub Router) {
		Get(sub, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})
	Get(r, "/health", func(*http.Request) (any, error) { return "ok", nil })

	if rec := serve(t, m, http.MethodGet, "/internal/ping"); rec.Header().Get("X-Stack") != "internal" {
		t.Fatalf("scoped middleware missing: %v", rec.Header())
	}
	if rec := serve(t, m, http.MethodGet, "/health"); rec.Code != http.StatusOK || rec.Header().Get("X-Stack") != "" {
		t.Fatalf("root route got scoped middleware: %d %v", rec.Code, rec.Header())
	}
}
