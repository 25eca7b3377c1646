package pg

import (
	"context"
	"errors"
	"time"

	"memorial/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgxlisten"
)

// ErrSessionClosed is returned by Next once the session has stopped
var ErrSessionClosed = errors.New("pg: listen session closed")

// ListenReconnectDelay is how long a dropped LISTEN connection waits before reconnecting
var ListenReconnectDelay = 2 * time.Second

// Session is one channel LISTENed on a connection of its own
// pgxlisten reconnects and relistens underneath; Next only ends on Close
type Session struct {
	channel  string
	payloads chan string
	ready    chan struct{}
	failed   chan error
	cancel   context.CancelFunc
	done     chan struct{}
}

func newSession(channel string) *Session {
	return &Session{
		channel:  channel,
		payloads: make(chan string, 64),
		ready:    make(chan struct{}, 1),
		failed:   make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// HandleNotification queues the payload for Next
func (s *Session) HandleNotification(ctx context.Context, n *pgconn.Notification, _ *pgx.Conn) error {
	select {
	case s.payloads <- n.Payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleBacklog runs once LISTEN is in place on a fresh connection
func (s *Session) HandleBacklog(context.Context, string, *pgx.Conn) error {
	select {
	case s.ready <- struct{}{}:
	default:
	}
	return nil
}

func (s *Session) logError(ctx context.Context, err error) {
	select {
	case s.failed <- err:
	default:
	}
	logger.Named("pg.listen").Warn().Err(err).Str("channel", s.channel).Msg("listen connection lost")
}

// Listen starts listening on channel and returns once the LISTEN is active
// the first connect or LISTEN failure is returned and the session torn down
func (p *PG) Listen(ctx context.Context, channel string) (*Session, error) {
	if p == nil || p.Pool == nil {
		return nil, errors.New("pg: nil pool")
	}
	s := newSession(channel)
	l := &pgxlisten.Listener{
		Connect: func(ctx context.Context) (*pgx.Conn, error) {
			c, err := p.Pool.Acquire(ctx)
			if err != nil {
				return nil, err
			}
			// pgxlisten closes the conn itself, so it leaves the pool
			return c.Hijack(), nil
		},
		LogError:       s.logError,
		ReconnectDelay: ListenReconnectDelay,
	}
	l.Handle(channel, s)

	lctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		_ = l.Listen(lctx)
	}()

	select {
	case <-s.ready:
		return s, nil
	case err := <-s.failed:
		_ = s.Close(context.Background())
		return nil, err
	case <-ctx.Done():
		_ = s.Close(context.Background())
		return nil, ctx.Err()
	}
}

// Channel returns the channel name this session listens on
func (s *Session) Channel() string { return s.channel }

// Next blocks until a payload arrives, ctx ends or the session is closed
func (s *Session) Next(ctx context.Context) (string, error) {
	select {
	case p := <-s.payloads:
		return p, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.done:
		return "", ErrSessionClosed
	}
}

// Close stops listening and waits for the connection to be closed
func (s *Session) Close(ctx context.Context) error {
	if s == nil || s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
