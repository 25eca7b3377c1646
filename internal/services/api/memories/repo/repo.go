// Package repo provides postgres access for memories
package repo

import (
	"context"
	"time"

	"memorial/internal/modkit/repokit"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/store"
	"memorial/internal/services/api/memories/domain"
)

// DefaultLimit is how many memories a tree read returns when unbounded
const DefaultLimit = 100

// Repo defines the repository contract for memories
type Repo interface {
	List(ctx context.Context, limit int) ([]domain.Memory, error)
	Insert(ctx context.Context, title, imageURL string) (domain.Memory, error)
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

func scanMemory(r store.Row) (domain.Memory, error) {
	var (
		m  domain.Memory
		at time.Time
	)
	if err := r.Scan(&m.ID, &m.Title, &m.ImageURL, &at); err != nil {
		return domain.Memory{}, err
	}
	m.CreatedAt = at.UTC()
	return m, nil
}

func (r *queries) List(ctx context.Context, limit int) ([]domain.Memory, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out, err := store.Many(ctx, r.q, scanMemory, `
select id, title, image_url, created_at
from memories
order by created_at desc, id desc
limit $1`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list memories")
	}
	if out == nil {
		out = []domain.Memory{}
	}
	return out, nil
}

func (r *queries) Insert(ctx context.Context, title, imageURL string) (domain.Memory, error) {
	m, err := store.One(ctx, r.q, scanMemory, `
insert into memories (title, image_url)
values ($1, $2)
returning id, title, image_url, created_at`, title, imageURL)
	if err != nil {
		return domain.Memory{}, perr.FromPostgresWithField(err, "insert memory")
	}
	return m, nil
}
