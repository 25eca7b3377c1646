package domain

import "context"

// Subscription is a live push registration; Close is idempotent
type Subscription interface {
	Close()
}

// ServicePort defines the service contract for candles
type ServicePort interface {
	List(ctx context.Context, in ListInput) ([]Candle, error)
	Light(ctx context.Context, in LightInput) (LitNotice, error)
	Watch(ctx context.Context, fn func(Candle)) (Subscription, error)
}
