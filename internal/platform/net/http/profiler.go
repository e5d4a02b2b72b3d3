package http

import (
	stdhttp "net/http"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler serves pprof under prefix, e.g. /debug/pprof/
// nothing is mounted when enabled is false
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	pprof := stdhttp.StripPrefix(prefix, mw.Profiler()).ServeHTTP
	for _, p := range []string{prefix, prefix + "/*"} {
		r.Get(p, pprof)
	}
}
