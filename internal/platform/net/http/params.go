package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// URLParam returns the named path parameter of the matched route, "" when absent
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
