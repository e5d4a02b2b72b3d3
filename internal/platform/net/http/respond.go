// Package http writes JSON responses in the shared envelope and adapts
// return style handlers to net/http
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "covtrend/internal/platform/net"
)

// Envelope is the body every endpoint answers with
type Envelope = pnet.Wire

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what a return style handler hands back
// an error Body picks its own status, a zero Status means 200
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK wraps data in a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error wraps err, its code decides the status
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a return style handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vv := range resp.Header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
		status, env := resp.envelope(pnet.RequestID(r.Context()))
		if status == stdhttp.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		JSON(w, status, env)
	}
}

func (resp Response) envelope(reqID string) (int, Envelope) {
	if err, ok := resp.Body.(error); ok && err != nil {
		return pnet.Error(err, reqID)
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	return status, Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  reqID,
		Data:       resp.Body,
	}
}
