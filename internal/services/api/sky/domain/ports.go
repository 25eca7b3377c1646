package domain

import (
	"context"

	"memorial/internal/core/sky"
)

// Subscription is a live push registration; Close is idempotent
type Subscription interface {
	Close()
}

// Backend is the wish store and its insert feed as a view sees them
type Backend interface {
	// ListRecent returns at most limit records, newest first
	ListRecent(ctx context.Context, limit int) ([]sky.Record, error)

	// Insert stores a wish and returns it with id and created_at assigned
	Insert(ctx context.Context, text string, style int) (sky.Record, error)

	// Subscribe calls fn for every record inserted from now on until the subscription closes
	Subscribe(ctx context.Context, fn func(sky.Record)) (Subscription, error)
}

// ServicePort defines the stateless service contract for wishes
type ServicePort interface {
	Recent(ctx context.Context, in RecentInput) ([]sky.Record, error)
	Submit(ctx context.Context, in WishInput) (sky.Record, error)
	Motifs() []sky.Motif
}
