package modkit

import (
	"net/http"
	"slices"

	"covtrend/internal/modkit/httpkit"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// never nil after Build
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies opts in order, later options win for single valued fields
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = slices.Clone(b.Mw)
	if b.Subrouter == nil {
		b.Subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if b.Register == nil {
		b.Register = func(httpkit.Router) {}
	}
	return b
}

// Mount routes the module under b.Prefix: mws first, then the subrouter
// hook, then the module's own routes followed by any WithRegister extras
func (b Built) Mount(r httpkit.Router, mws []func(http.Handler) http.Handler, own func(httpkit.Router)) {
	r.Route(b.Prefix, func(rr httpkit.Router) {
		for _, mw := range mws {
			rr.Use(mw)
		}
		if b.Subrouter != nil {
			rr = b.Subrouter(rr)
		}
		if own != nil {
			own(rr)
		}
		if b.Register != nil {
			b.Register(rr)
		}
	})
}
