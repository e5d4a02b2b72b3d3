// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perrs "covtrend/internal/platform/errors"
)

// HeaderPort implements middleware.AuthPort from a trusted identity header set by the gateway
// a missing header is an anonymous caller, not an error
type HeaderPort struct {
	Header string
}

// NewHeaderPort builds a HeaderPort, empty header means X-User-ID
func NewHeaderPort(header string) *HeaderPort {
	if header == "" {
		header = "X-User-ID"
	}
	return &HeaderPort{Header: header}
}

// Parse returns the user id from the header, it must be a positive integer when present
func (p *HeaderPort) Parse(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get(p.Header))
	if raw == "" {
		return "", nil
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err != nil || id <= 0 {
		return "", perrs.Unauthorizedf("invalid %s header", p.Header)
	}
	return raw, nil
}
