// Package store provides a unified interface to the postgres backend and its change feed
package store

import (
	"context"
	"errors"
	"fmt"

	"memorial/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the facade for optional backends
// zero value is safe but does nothing
type Store struct {
	// Log feeds the SQL tracer; the zero value discards
	Log logger.Logger

	// PG is the postgres sql seam, nil when disabled
	PG TxRunner

	// Feed is the postgres LISTEN/NOTIFY seam, nil when PG is disabled
	Feed Listener
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// ListenSession is one open change feed subscription on a channel
type ListenSession interface {
	// Next blocks until a payload arrives or ctx ends
	Next(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// Listener opens change feed sessions, postgres LISTEN/NOTIFY in production
type Listener interface {
	Listen(ctx context.Context, channel string) (ListenSession, error)
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open connects the enabled backends; disabled ones stay nil on the Store
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	if !cfg.PG.Enabled {
		return s, nil
	}
	a, err := openPG(ctx, cfg.PG, s)
	if err != nil {
		return nil, err
	}
	s.PG, s.Feed = a, a
	return s, nil
}

// Guard pings every backend that can be pinged and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close releases the pool; a store without backends closes cleanly
func (s *Store) Close(context.Context) error {
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Pool is the raw pgx pool for migrations, nil when postgres is off or faked
func (s *Store) Pool() *pgxpool.Pool {
	if a, ok := s.PG.(*pgAdapter); ok {
		return a.DB().Pool
	}
	return nil
}
