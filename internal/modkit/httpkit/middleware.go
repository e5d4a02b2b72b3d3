package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "covtrend/internal/platform/net/http"
	"covtrend/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware for the versioned api
// origins feeds CORS, empty allows any origin
func CommonStack(origins []string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond, Skip: []string{"/health"}}),

		// cross-origin, charts are read only so credentials stay off
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins, MaxAge: 300}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	// middleware expects write func(w http.ResponseWriter, status int, body any)
	// use phttp.JSON which matches that signature
	return middleware.Auth(p, phttp.JSON)
}

// JSONOnly rejects non empty bodies that are not application/json
func JSONOnly() func(http.Handler) http.Handler {
	return middleware.AllowContentType("application/json")
}

// Limit caps in flight requests for a module, zero inflight disables it
func Limit(inflight, backlog int, wait time.Duration) func(http.Handler) http.Handler {
	if inflight <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.ThrottleBacklog(inflight, backlog, wait)
}
