// Package service contains the wish workflows and the live sky views
package service

import (
	"context"
	"sync"

	"memorial/internal/core/sky"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/logger"
	"memorial/internal/services/api/sky/domain"

	"github.com/google/uuid"
)

// Observer receives service level counters, usually the metrics collectors
type Observer interface {
	SubmitObserver
	ViewOpened()
	ViewClosed()
}

// Service defines the service contract for wishes and live views
type Service interface {
	domain.ServicePort

	// OpenView creates, registers and mounts a live view
	OpenView(ctx context.Context) *View
	// View finds a registered view
	View(id string) (*View, bool)
	// CloseView tears a view down and forgets it
	CloseView(id string)
}

// Svc implements the Service interface
type Svc struct {
	backend domain.Backend
	opts    Options
	newRand func() sky.Rand
	obs     Observer

	mu    sync.Mutex
	views map[string]*View
}

// Option configures Svc
type Option func(*Svc)

// WithRand sets the per view random source factory
func WithRand(fn func() sky.Rand) Option { return func(s *Svc) { s.newRand = fn } }

// WithObserver sets the counters sink
func WithObserver(o Observer) Option { return func(s *Svc) { s.obs = o } }

// New creates a new sky service
func New(backend domain.Backend, opts Options, o ...Option) *Svc {
	if backend == nil {
		panic("sky.Service requires a non nil Backend")
	}
	s := &Svc{
		backend: backend,
		opts:    opts.withDefaults(),
		newRand: sky.SystemRand,
		views:   make(map[string]*View),
	}
	for _, fn := range o {
		fn(s)
	}
	return s
}

// Options returns the effective options
func (s *Svc) Options() Options { return s.opts }

// Recent returns the most recent wishes, newest first
func (s *Svc) Recent(ctx context.Context, in domain.RecentInput) ([]sky.Record, error) {
	limit := in.Limit
	if limit <= 0 || limit > s.opts.HistoryLimit {
		limit = s.opts.HistoryLimit
	}
	return s.backend.ListRecent(ctx, limit)
}

// Submit stores a wish outside of any view; live views pick it up from the feed
func (s *Svc) Submit(ctx context.Context, in domain.WishInput) (sky.Record, error) {
	text, err := sky.NormalizeText(in.Text)
	if err != nil {
		s.observe("rejected")
		return sky.Record{}, perr.WithField(err, "wish_text")
	}
	if in.StyleIndex == nil || !sky.ValidStyle(*in.StyleIndex) {
		s.observe("rejected")
		return sky.Record{}, perr.WithField(sky.ErrStyleRange, "style_index")
	}
	rec, err := s.backend.Insert(ctx, text, *in.StyleIndex)
	if err != nil {
		s.observe("failure")
		return sky.Record{}, err
	}
	s.observe("success")
	return rec, nil
}

// Motifs returns the lantern gallery
func (s *Svc) Motifs() []sky.Motif { return sky.Motifs() }

// OpenView creates, registers and mounts a live view
func (s *Svc) OpenView(ctx context.Context) *View {
	var obs SubmitObserver
	if s.obs != nil {
		obs = s.obs
	}
	v := NewView(uuid.NewString(), s.backend, s.newRand(), s.opts, obs)

	s.mu.Lock()
	s.views[v.ID()] = v
	s.mu.Unlock()
	if s.obs != nil {
		s.obs.ViewOpened()
	}

	v.Mount(ctx)
	logger.C(ctx).Debug().Str("view_id", v.ID()).Msg("sky view opened")
	return v
}

// View finds a registered view
func (s *Svc) View(id string) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	return v, ok
}

// Views returns the number of registered views
func (s *Svc) Views() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// CloseView tears a view down and forgets it
func (s *Svc) CloseView(id string) {
	s.mu.Lock()
	v, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	v.Close()
	if s.obs != nil {
		s.obs.ViewClosed()
	}
}

// Close tears every view down
func (s *Svc) Close() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.views))
	for id := range s.views {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.CloseView(id)
	}
}

func (s *Svc) observe(outcome string) {
	if s.obs != nil {
		s.obs.Submit("direct", outcome)
	}
}
