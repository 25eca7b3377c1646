// Package module wires the meta endpoints into the API
package module

import (
	"time"

	"memorial/internal/core/version"
	"memorial/internal/modkit"
	phttp "memorial/internal/platform/net/http"
	metahttp "memorial/internal/services/api/meta/http"
)

// New builds the meta module; it publishes no ports
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)

	d := metahttp.Deps{
		ServiceName:  version.Service,
		StartedAt:    time.Now(),
		Checks:       readyChecks(deps),
		ReadyTimeout: deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	m := modkit.NewBase(b, func(r phttp.Router) { metahttp.Register(r, d) })
	return &m
}

// readyChecks lists the probes behind /meta/ready
// absent backends stay untyped nil so they report as skipped
func readyChecks(deps modkit.Deps) []metahttp.Check {
	var pg, s3 any
	if deps.PG != nil {
		pg = deps.PG
	}
	if deps.Blob != nil {
		s3 = deps.Blob
	}
	return []metahttp.Check{{Name: "pg", Target: pg}, {Name: "s3", Target: s3}}
}
