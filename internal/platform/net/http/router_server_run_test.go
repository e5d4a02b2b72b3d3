package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"covtrend/internal/platform/config"
	phttp "covtrend/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func startServer(ctx context.Context, t *testing.T) (*phttp.Server, <-chan error) {
	t.Helper()
	t.Setenv("CORE_API_PORT", "127.0.0.1:0")

	optCalled := false
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"), func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("expected NewServer option to be called")
	}

	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-MW", "yes")
			next.ServeHTTP(w, req)
		})
	})
	r.Group(func(gr phttp.Router) {
		gr.Get("/charts/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	})
	r.Post("/charts/repository", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == "127.0.0.1:0" {
		if time.Now().After(deadline) {
			t.Fatalf("server did not bind")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return srv, done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}
}

func TestServer_ServesThenShutsDown(t *testing.T) {
	srv, done := startServer(context.Background(), t)

	res, err := http.Get("http://" + srv.Addr() + "/charts/ping")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK || string(body) != "pong" || res.Header.Get("X-MW") != "yes" {
		t.Fatalf("ping: %d %q %v", res.StatusCode, body, res.Header)
	}

	rec := httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/charts/repository", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("post adapter failed: %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/charts/repository", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("put should be rejected: %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	waitDone(t, done)
}

func TestServer_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, done := startServer(ctx, t)
	cancel()
	waitDone(t, done)
}

func TestNewServer_AddrFromEnv(t *testing.T) {
	t.Setenv("CORE_API_PORT", ":12345")
	if srv := phttp.NewServer(config.New().Prefix("CORE_API_")); srv.Addr() != ":12345" {
		t.Fatalf("expected addr :12345, got %q", srv.Addr())
	}
}

func TestServer_Run_ReturnsListenError(t *testing.T) {
	t.Setenv("CORE_API_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New().Prefix("CORE_API_")).Run(context.Background()); err == nil {
		t.Fatalf("expected Run to fail on an invalid addr")
	}
}
