package modkit

import (
	"net/http"

	phttp "memorial/internal/platform/net/http"
)

// Option tweaks how a module is mounted
type Option func(*Built)

// Built is the resolved mount configuration a module keeps
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	SwaggerOn bool

	// Subrouter may wrap the module router, Register adds extra endpoints after the module's own
	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies opts in order; later options win
// Subrouter and Register are never nil on the result
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if b.Subrouter == nil {
		b.Subrouter = func(r phttp.Router) phttp.Router { return r }
	}
	if b.Register == nil {
		b.Register = func(phttp.Router) {}
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

func WithName(name string) Option     { return func(b *Built) { b.Name = name } }
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }
func WithSwagger(on bool) Option      { return func(b *Built) { b.SwaggerOn = on } }

// WithMiddlewares appends to the module middleware, keeping call order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts overrides the port set a module publishes
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

func WithRegister(fn func(phttp.Router)) Option {
	return func(b *Built) { b.Register = fn }
}
