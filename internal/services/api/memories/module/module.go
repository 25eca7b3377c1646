// Package module wires the memory tree into the API
package module

import (
	modkit "memorial/internal/modkit"
	phttp "memorial/internal/platform/net/http"
	memdom "memorial/internal/services/api/memories/domain"
	memhttp "memorial/internal/services/api/memories/http"
	memrepo "memorial/internal/services/api/memories/repo"
	memsvc "memorial/internal/services/api/memories/service"
)

type memoryPorts struct{ memdom.ServicePort }

// New builds the memories module; without a bucket uploads answer unavailable
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)

	var blobs memdom.Blobs
	if deps.Blob != nil {
		blobs = deps.Blob
	}
	svc := memsvc.New(deps.PG, memrepo.NewPG(), blobs,
		memsvc.WithMaxUpload(o.MaxUpload),
		memsvc.WithObserver(deps.Metrics),
	)

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("memories"),
		modkit.WithPrefix("/memories"),
		modkit.WithPorts(memoryPorts{svc}),
	}, opts...)...)

	m := modkit.NewBase(b, func(r phttp.Router) { memhttp.Register(r, svc, svc.MaxUpload()) })
	return &m
}
