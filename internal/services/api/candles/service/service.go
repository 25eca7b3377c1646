// Package service contains the wall of light workflows
package service

import (
	"context"
	"unicode/utf8"

	"memorial/internal/core/normalize"
	"memorial/internal/modkit/repokit"
	perr "memorial/internal/platform/errors"
	"memorial/internal/services/api/candles/domain"
	"memorial/internal/services/api/candles/repo"
)

// MaxLimit caps a single wall read
const MaxLimit = 500

const (
	msgLitTitle = "Candle lit!"
	msgLitBody  = "Thank you for sharing your memory."
)

// Service defines the service contract for candles
type Service interface{ domain.ServicePort }

// FeedPort is the insert feed the wall watches
type FeedPort interface {
	Subscribe(ctx context.Context, fn func(domain.Candle)) (domain.Subscription, error)
}

// Observer counts lit candles
type Observer interface {
	CandleLit()
}

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
	feed FeedPort
	obs  Observer
}

// New creates a new candles service; feed and obs may be nil
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], feed FeedPort, obs Observer) *Svc {
	if db == nil {
		panic("candles.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("candles.Service requires a non nil Repo binder")
	}
	if feed == nil {
		feed = (*repo.Feed)(nil)
	}
	return &Svc{Repo: repokit.MustBind(binder, db), feed: feed, obs: obs}
}

// List returns the wall, newest first
func (s *Svc) List(ctx context.Context, in domain.ListInput) ([]domain.Candle, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = repo.DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.Repo.List(ctx, limit)
}

// Light stores a new candle
func (s *Svc) Light(ctx context.Context, in domain.LightInput) (domain.LitNotice, error) {
	name, err := bounded(normalize.Line(in.VisitorName), domain.MaxNameLen, "visitor_name")
	if err != nil {
		return domain.LitNotice{}, err
	}
	msg, err := bounded(normalize.Text(in.Message), domain.MaxMessageLen, "message")
	if err != nil {
		return domain.LitNotice{}, err
	}
	c, err := s.Repo.Insert(ctx, name, msg)
	if err != nil {
		return domain.LitNotice{}, err
	}
	if s.obs != nil {
		s.obs.CandleLit()
	}
	return domain.LitNotice{Title: msgLitTitle, Message: msgLitBody, Candle: c}, nil
}

// Watch calls fn for every candle lit from now on
func (s *Svc) Watch(ctx context.Context, fn func(domain.Candle)) (domain.Subscription, error) {
	return s.feed.Subscribe(ctx, fn)
}

// bounded enforces 1..max characters on already normalized s
func bounded(s string, max int, field string) (string, error) {
	if s == "" {
		return "", perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s is required", field), field)
	}
	if utf8.RuneCountInString(s) > max {
		return "", perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be at most %d characters", field, max), field)
	}
	return s, nil
}
