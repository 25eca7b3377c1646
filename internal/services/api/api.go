// Package api provides the HTTP API for the application
package api

import (
	"memorial/internal/platform/blob"
	"memorial/internal/platform/config"
	"memorial/internal/platform/logger"
	"memorial/internal/platform/metrics"
	phttp "memorial/internal/platform/net/http"
	"memorial/internal/platform/net/middleware"
	"memorial/internal/platform/realtime"
	"memorial/internal/platform/store"

	"memorial/internal/modkit"
	"memorial/internal/modkit/httpkit"
	"memorial/internal/modkit/module"
	"memorial/internal/modkit/swaggerkit"

	candlesmod "memorial/internal/services/api/candles/module"
	memoriesmod "memorial/internal/services/api/memories/module"
	metamod "memorial/internal/services/api/meta/module"
	skymod "memorial/internal/services/api/sky/module"
)

// Options are the API options
type Options struct {
	// Config is the root config; modules read their own prefixes from it
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger

	// Hub, Blob and Metrics are optional
	Hub     *realtime.Hub
	Blob    *blob.Store
	Metrics *metrics.Metrics

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Mount mounts the API service onto the given router
// the returned func closes live views and should run on shutdown
func Mount(r phttp.Router, opt Options) func() {
	apiCfg := opt.Config.Prefix("CORE_API_")

	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Hub:     opt.Hub,
		Blob:    opt.Blob,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	mods := []modkit.Module{
		metamod.New(deps),
		skymod.New(deps),
		candlesmod.New(deps),
		memoriesmod.New(deps),
	}

	stack := httpkit.CommonStack(apiCfg.MayCSV("CORS_ORIGINS", nil)...)
	if opt.Metrics != nil {
		stack = append(stack, middleware.HTTPMetrics(opt.Metrics))
	}

	// Swagger + profiler + scrape endpoint
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics && opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	return func() {
		for _, m := range mods {
			if c, ok := m.(interface{ Close() }); ok {
				c.Close()
			}
		}
	}
}
