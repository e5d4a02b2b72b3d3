package middleware

import (
	"context"
	"net/http"
	"slices"
	"time"

	"covtrend/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests taking at least Slow at warn, 0 disables it
	Slow time.Duration
	// Skip lists exact paths that are never logged, e.g. probes
	Skip []string
}

// requestLog is swapped in tests
var requestLog = func(ctx context.Context) *logger.Logger { return logger.C(ctx) }

// statusWriter records the status code and body size
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.size += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// AccessLogZerolog writes one line per request on the request scoped logger
// 5xx logs at error, slow requests at warn, everything else at info
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(opt.Skip, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r)
			took := time.Since(start)
			if sw.status == 0 {
				sw.status = http.StatusOK
			}

			log := requestLog(r.Context())
			var ev *zerolog.Event
			switch {
			case sw.status >= http.StatusInternalServerError:
				ev = log.Error()
			case opt.Slow > 0 && took >= opt.Slow:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				ev = ev.Str("route", rc.RoutePattern())
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.size).
				Dur("took", took).
				Msg("request done")
		})
	}
}
