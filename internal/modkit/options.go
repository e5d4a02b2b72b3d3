package modkit

import (
	"net/http"

	"covtrend/internal/modkit/httpkit"
)

// Option sets one field of a module's Built
type Option func(*Built)

// WithName names the module for logs and port lookups
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix is the route the module mounts under, e.g. /charts
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends module middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands a module the ports another module exported
// T only documents intent, the stored value keeps its dynamic type
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSubrouter wraps the module router before any route is added
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.Register = fn }
}
