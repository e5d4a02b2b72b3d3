// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "covtrend/internal/platform/net/http"
	"covtrend/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router

	// Response lets a Call handler pick its own status
	Response = phttp.Response
)

// Call adapts a handler that takes no JSON body
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// JSONOptions tunes ParseJSON
type JSONOptions = bind.JSONOptions

// ParseJSON decodes and validates a request body, see bind.ParseJSON
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	return bind.ParseJSON[T](r, opts...)
}

// Param returns a named path parameter
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }
