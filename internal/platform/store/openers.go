package store

import (
	"context"
	"time"

	"memorial/internal/core/version"
	"memorial/internal/platform/store/pg"
)

// openPG waits for postgres and wraps the pool in the traced adapter
func openPG(ctx context.Context, cfg PGConfig, s *Store) (*pgAdapter, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	slow := time.Duration(cfg.SlowQueryMs) * time.Millisecond
	if cfg.SlowQueryMs < 0 {
		slow = -1
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:             cfg.URL,
		MaxConns:        cfg.MaxConns,
		ApplicationName: version.Service,
		Slow:            slow,
		ConnectRetries:  cfg.ConnectRetries,
		PingTimeout:     cfg.PingTimeout,
	}, tracer)
	if err != nil {
		return nil, err
	}
	return newPGAdapter(p), nil
}
