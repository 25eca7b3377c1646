// Package module wires the wall of light into the API
package module

import (
	modkit "memorial/internal/modkit"
	phttp "memorial/internal/platform/net/http"
	candlesdom "memorial/internal/services/api/candles/domain"
	candleshttp "memorial/internal/services/api/candles/http"
	candlesrepo "memorial/internal/services/api/candles/repo"
	candlessvc "memorial/internal/services/api/candles/service"
)

type candlePorts struct{ candlesdom.ServicePort }

// New builds the candles module; without a hub the wall has no live stream
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)

	var feed candlessvc.FeedPort
	if deps.Hub != nil {
		feed = candlesrepo.NewFeed(deps.Hub, deps.Metrics)
	}
	svc := candlessvc.New(deps.PG, candlesrepo.NewPG(), feed, deps.Metrics)

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("candles"),
		modkit.WithPrefix("/candles"),
		modkit.WithPorts(candlePorts{svc}),
	}, opts...)...)

	m := modkit.NewBase(b, func(r phttp.Router) { candleshttp.Register(r, svc, o.Ping) })
	return &m
}
