package repo

import (
	"context"

	"memorial/internal/core/sky"
	"memorial/internal/modkit/repokit"
	"memorial/internal/services/api/sky/domain"
)

// FeedPort is what Backend needs to subscribe
type FeedPort interface {
	Subscribe(ctx context.Context, fn func(sky.Record)) (domain.Subscription, error)
}

// Backend joins the wish repo and the insert feed into the view backend
type Backend struct {
	repo Repo
	feed FeedPort
}

// NewBackend binds the repo to db and pairs it with feed
func NewBackend(db repokit.TxRunner, binder repokit.Binder[Repo], feed FeedPort) *Backend {
	if db == nil {
		panic("sky.Backend requires a non nil TxRunner")
	}
	if binder == nil {
		panic("sky.Backend requires a non nil Repo binder")
	}
	if feed == nil {
		feed = (*Feed)(nil)
	}
	return &Backend{repo: repokit.MustBind(binder, db), feed: feed}
}

// ListRecent implements domain.Backend
func (b *Backend) ListRecent(ctx context.Context, limit int) ([]sky.Record, error) {
	return b.repo.ListRecent(ctx, limit)
}

// Insert implements domain.Backend
func (b *Backend) Insert(ctx context.Context, text string, style int) (sky.Record, error) {
	return b.repo.Insert(ctx, text, style)
}

// Subscribe implements domain.Backend
func (b *Backend) Subscribe(ctx context.Context, fn func(sky.Record)) (domain.Subscription, error) {
	return b.feed.Subscribe(ctx, fn)
}
