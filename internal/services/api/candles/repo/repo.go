// Package repo provides postgres access and the insert feed for candles
package repo

import (
	"context"
	"time"

	"memorial/internal/modkit/repokit"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/store"
	"memorial/internal/services/api/candles/domain"
)

// DefaultLimit is how many candles a wall read returns when unbounded
const DefaultLimit = 200

// Repo defines the repository contract for candles
type Repo interface {
	List(ctx context.Context, limit int) ([]domain.Candle, error)
	Insert(ctx context.Context, name, message string) (domain.Candle, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func scanCandle(r store.Row) (domain.Candle, error) {
	var (
		c  domain.Candle
		at time.Time
	)
	if err := r.Scan(&c.ID, &c.VisitorName, &c.Message, &at); err != nil {
		return domain.Candle{}, err
	}
	c.CreatedAt = at.UTC()
	return c, nil
}

func (r *queries) List(ctx context.Context, limit int) ([]domain.Candle, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out, err := store.Many(ctx, r.q, scanCandle, `
select id, visitor_name, message, created_at
from candles
order by created_at desc, id desc
limit $1`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list candles")
	}
	if out == nil {
		out = []domain.Candle{}
	}
	return out, nil
}

func (r *queries) Insert(ctx context.Context, name, message string) (domain.Candle, error) {
	c, err := store.One(ctx, r.q, scanCandle, `
insert into candles (visitor_name, message)
values ($1, $2)
returning id, visitor_name, message, created_at`, name, message)
	if err != nil {
		return domain.Candle{}, perr.FromPostgresWithField(err, "light candle")
	}
	return c, nil
}
