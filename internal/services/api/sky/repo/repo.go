// Package repo provides postgres access and the insert feed for wishes
package repo

import (
	"context"
	"time"

	"memorial/internal/core/sky"
	"memorial/internal/modkit/repokit"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/store"
)

// Repo defines the repository contract for wishes
type Repo interface {
	ListRecent(ctx context.Context, limit int) ([]sky.Record, error)
	Insert(ctx context.Context, text string, style int) (sky.Record, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const selectWish = `select id, wish_text, created_at, style_index from wishes`

func scanWish(r store.Row) (sky.Record, error) {
	var (
		rec   sky.Record
		style *int
		at    time.Time
	)
	if err := r.Scan(&rec.ID, &rec.Text, &at, &style); err != nil {
		return sky.Record{}, err
	}
	rec.CreatedAt = at.UTC()
	rec.StyleIndex = style
	return rec, nil
}

func (r *queries) ListRecent(ctx context.Context, limit int) ([]sky.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	out, err := store.Many(ctx, r.q, scanWish, selectWish+`
order by created_at desc, id desc
limit $1`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list wishes")
	}
	if out == nil {
		out = []sky.Record{}
	}
	return out, nil
}

func (r *queries) Insert(ctx context.Context, text string, style int) (sky.Record, error) {
	rec, err := store.One(ctx, r.q, scanWish, `
insert into wishes (wish_text, style_index)
values ($1, $2)
returning id, wish_text, created_at, style_index`, text, style)
	if err != nil {
		return sky.Record{}, perr.FromPostgresWithField(err, "insert wish")
	}
	return rec, nil
}
