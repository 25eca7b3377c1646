// Package module wires the sky of wishes into the API
package module

import (
	modkit "memorial/internal/modkit"
	phttp "memorial/internal/platform/net/http"
	skydom "memorial/internal/services/api/sky/domain"
	skyhttp "memorial/internal/services/api/sky/http"
	skyrepo "memorial/internal/services/api/sky/repo"
	skysvc "memorial/internal/services/api/sky/service"
)

// Module is the sky of wishes; it owns every open view
type Module struct {
	modkit.Base
	svc *skysvc.Svc
}

// skyPorts publishes only the stateless part of the service
type skyPorts struct{ skydom.ServicePort }

// New builds the sky module with SKY_* options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
}

// NewWithOptions builds the sky module with explicit bounds
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) modkit.Module {
	// without a hub views stay static and only show history plus their own wishes
	var feed *skyrepo.Feed
	if deps.Hub != nil {
		feed = skyrepo.NewFeed(deps.Hub, deps.Metrics)
	}
	backend := skyrepo.NewBackend(deps.PG, skyrepo.NewPG(), feed)
	svc := skysvc.New(backend, o.View, skysvc.WithObserver(deps.Metrics))

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("sky"),
		modkit.WithPrefix("/sky"),
		modkit.WithPorts(skyPorts{svc}),
	}, opts...)...)

	return &Module{
		Base: modkit.NewBase(b, func(r phttp.Router) { skyhttp.Register(r, svc, o.Ping) }),
		svc:  svc,
	}
}

// Close tears down every open view
func (m *Module) Close() { m.svc.Close() }
