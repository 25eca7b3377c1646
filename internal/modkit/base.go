package modkit

import (
	phttp "memorial/internal/platform/net/http"
	str "memorial/internal/platform/strings"
)

// Base implements Module from a Built plus the module's own routes
// embed it and add whatever the module owns
type Base struct {
	b      Built
	routes func(phttp.Router)
}

// NewBase mounts routes ahead of any extra endpoints registered through options
func NewBase(b Built, routes func(phttp.Router)) Base {
	return Base{b: b, routes: routes}
}

// Name panics when the module was built without one
func (m Base) Name() string   { return str.MustString(m.b.Name, "module name") }
func (m Base) Prefix() string { return str.MustPrefix(m.b.Prefix) }
func (m Base) Ports() any     { return m.b.Ports }

// MountRoutes scopes the module under its prefix with its own middleware
func (m Base) MountRoutes(r phttp.Router) {
	r.Route(m.Prefix(), func(rr phttp.Router) {
		if len(m.b.Mw) > 0 {
			rr.Use(m.b.Mw...)
		}
		rr = m.b.Subrouter(rr)
		if m.routes != nil {
			m.routes(rr)
		}
		m.b.Register(rr)
	})
}
