// Package realtime fans change feed payloads out to in-process subscribers
// one hub holds at most one LISTEN session per channel no matter how many views subscribe
package realtime

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"memorial/internal/platform/logger"
	"memorial/internal/platform/store"
)

// ErrClosed is returned by Subscribe after Close
var ErrClosed = errors.New("realtime: hub closed")

// Handler receives one raw payload; calls for a subscriber never overlap
type Handler func(payload string)

// Observer is told about every payload the hub receives
type Observer interface {
	Payload(channel, outcome string)
}

// Hub multiplexes channel subscriptions over a store.Listener
type Hub struct {
	l   store.Listener
	log logger.Logger
	obs Observer

	mu     sync.Mutex
	feeds  map[string]*feed
	nextID uint64
	closed bool
}

type feed struct {
	channel string
	subs    map[uint64]Handler
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the hub logger
func WithLogger(l logger.Logger) Option { return func(h *Hub) { h.log = l } }

// WithObserver sets the payload observer, usually the metrics collectors
func WithObserver(o Observer) Option { return func(h *Hub) { h.obs = o } }

// New builds a hub over l
func New(l store.Listener, opts ...Option) *Hub {
	if l == nil {
		panic("realtime.Hub requires a non nil Listener")
	}
	h := &Hub{
		l:     l,
		log:   *logger.Named("realtime"),
		feeds: make(map[string]*feed),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Subscribe registers fn on channel and starts listening when it is the first subscriber
// the LISTEN happens before Subscribe returns so a failure reaches the caller
func (h *Hub) Subscribe(ctx context.Context, channel string, fn Handler) (*Subscription, error) {
	if fn == nil {
		return nil, errors.New("realtime: nil handler")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	f := h.feeds[channel]
	if f == nil {
		sess, err := h.l.Listen(ctx, channel)
		if err != nil {
			return nil, err
		}
		fctx, cancel := context.WithCancel(context.Background())
		f = &feed{
			channel: channel,
			subs:    make(map[uint64]Handler),
			cancel:  cancel,
			done:    make(chan struct{}),
		}
		h.feeds[channel] = f
		go h.pump(fctx, f, sess)
		h.log.Debug().Str("channel", channel).Msg("listening")
	}
	h.nextID++
	id := h.nextID
	f.subs[id] = fn
	return &Subscription{hub: h, channel: channel, id: id}, nil
}

// Subscribers returns the live subscriber count of channel
func (h *Hub) Subscribers(channel string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f := h.feeds[channel]; f != nil {
		return len(f.subs)
	}
	return 0
}

// Close stops every feed and waits for the pumps to exit
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	done := make([]chan struct{}, 0, len(h.feeds))
	for name, f := range h.feeds {
		f.cancel()
		done = append(done, f.done)
		delete(h.feeds, name)
	}
	h.mu.Unlock()

	for _, d := range done {
		<-d
	}
}

func (h *Hub) unsubscribe(channel string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f := h.feeds[channel]
	if f == nil {
		return
	}
	delete(f.subs, id)
	if len(f.subs) == 0 {
		// the pump may be inside a handler that is closing its own subscription, so no wait here
		delete(h.feeds, channel)
		f.cancel()
		h.log.Debug().Str("channel", channel).Msg("unlistening")
	}
}

// pump drains one session; reconnecting is the session's job
// a session that ends on its own drops the feed so the next Subscribe listens again
func (h *Hub) pump(ctx context.Context, f *feed, sess store.ListenSession) {
	defer close(f.done)
	defer h.closeSession(sess)

	for {
		payload, err := sess.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				h.log.Warn().Err(err).Str("channel", f.channel).Msg("listen session ended")
				h.drop(f)
			}
			return
		}
		h.deliver(f, payload)
	}
}

func (h *Hub) drop(f *feed) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.feeds[f.channel] == f {
		delete(h.feeds, f.channel)
	}
}

func (h *Hub) deliver(f *feed, payload string) {
	h.mu.Lock()
	ids := slices.Sorted(maps.Keys(f.subs))
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, f.subs[id])
	}
	h.mu.Unlock()

	if h.obs != nil {
		h.obs.Payload(f.channel, "received")
	}
	for _, fn := range handlers {
		h.call(f.channel, fn, payload)
	}
}

func (h *Hub) call(channel string, fn Handler, payload string) {
	defer func() {
		if v := recover(); v != nil {
			h.log.Error().Interface("panic", v).Str("channel", channel).Msg("subscriber panicked")
		}
	}()
	fn(payload)
}

func (h *Hub) closeSession(sess store.ListenSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sess.Close(ctx); err != nil {
		h.log.Debug().Err(err).Msg("listen session close")
	}
}

// Subscription is one registered handler; Close is idempotent
type Subscription struct {
	hub     *Hub
	channel string
	id      uint64
	once    sync.Once
}

// Channel returns the subscribed channel
func (s *Subscription) Channel() string { return s.channel }

// Close unregisters the handler and stops listening when it was the last one
// a payload already being delivered may still reach the handler once
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.hub.unsubscribe(s.channel, s.id) })
}
