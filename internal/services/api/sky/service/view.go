package service

import (
	"context"
	"sync"

	"memorial/internal/core/sky"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/logger"
	"memorial/internal/services/api/sky/domain"
)

const noticeBuffer = 8

// Notice copy
const (
	msgSentTitle   = "Wish sent!"
	msgSentBody    = "Your wish is traveling to the stars."
	msgFailedTitle = "Wish not sent"
	msgFailedBody  = "Your wish could not be sent to the sky."
	msgBusy        = "A wish is already on its way."
	msgClosed      = "This sky is no longer open."
)

// SubmitObserver counts submission outcomes
type SubmitObserver interface {
	Submit(path, outcome string)
}

// View is one viewer's live sky
// it owns its window; history, pushes and own submissions all merge under mu
type View struct {
	id      string
	backend domain.Backend
	opts    Options
	obs     SubmitObserver
	log     logger.Logger

	mu      sync.Mutex
	rng     sky.Rand
	win     *sky.Window
	stars   []sky.Star
	sub     domain.Subscription
	live    bool
	mounted bool
	closed  bool
	sending bool

	changes chan struct{}
	notices chan domain.Notice
	done    chan struct{}
}

// NewView builds an unmounted view; rng is used only under the view lock
func NewView(id string, backend domain.Backend, rng sky.Rand, opts Options, obs SubmitObserver) *View {
	if backend == nil {
		panic("sky.View requires a non nil Backend")
	}
	if rng == nil {
		rng = sky.SystemRand()
	}
	opts = opts.withDefaults()
	return &View{
		id:      id,
		backend: backend,
		opts:    opts,
		obs:     obs,
		log:     logger.Named("sky-view").With().Str("view_id", id).Logger(),
		rng:     rng,
		win:     sky.NewWindow(opts.WindowCap),
		stars:   sky.Stars(opts.Stars, rng),
		changes: make(chan struct{}, 1),
		notices: make(chan domain.Notice, noticeBuffer),
		done:    make(chan struct{}),
	}
}

// ID returns the view id
func (v *View) ID() string { return v.id }

// Changes fires after the window changed; bursts coalesce into one signal
func (v *View) Changes() <-chan struct{} { return v.changes }

// Notices yields success and failure notices of submissions through this view
func (v *View) Notices() <-chan domain.Notice { return v.notices }

// Done is closed by Close
func (v *View) Done() <-chan struct{} { return v.done }

// Mount subscribes to the insert feed and loads the recent history
// neither failure is returned: without a feed the view stays static, without history it starts empty
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted || v.closed {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	v.mu.Unlock()

	sub, err := v.backend.Subscribe(ctx, v.onPush)
	v.mu.Lock()
	switch {
	case err != nil:
		v.log.Warn().Err(err).Msg("live feed unavailable")
	case v.closed:
		v.mu.Unlock()
		sub.Close()
		return
	default:
		v.sub = sub
		v.live = true
	}
	v.mu.Unlock()

	recs, err := v.backend.ListRecent(ctx, v.opts.HistoryLimit)
	if err != nil {
		v.log.Warn().Err(err).Msg("history load failed")
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.applyHistory(recs)
	v.changed()
}

// applyHistory seeds the window; records pushed while the history was loading stay in front
func (v *View) applyHistory(recs []sky.Record) {
	if len(recs) > v.opts.HistoryLimit {
		recs = recs[:v.opts.HistoryLimit]
	}
	hist := make([]sky.Augmented, 0, len(recs))
	for _, r := range recs {
		if !r.Valid() {
			continue
		}
		a, _ := sky.AugmentIfAbsent(v.win, r, v.rng)
		hist = append(hist, a)
	}
	if v.win.Len() == 0 {
		v.win.Reset(hist)
		return
	}
	v.win.Reset(append(v.win.Items(), hist...))
}

// onPush merges one record from the insert feed
func (v *View) onPush(rec sky.Record) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || !rec.Valid() {
		return
	}
	a, fresh := sky.AugmentIfAbsent(v.win, rec, v.rng)
	if !fresh {
		return
	}
	if v.win.Push(a) {
		v.changed()
	}
}

// Submit sends the composer's wish and merges the stored record into the window
// on success the composer is cleared and closed; on any other outcome it is left as is
func (v *View) Submit(ctx context.Context, c *domain.Composer) domain.Notice {
	text, err := sky.NormalizeText(c.Text)
	if err != nil {
		return v.reject(err)
	}
	if !sky.ValidStyle(c.Style) {
		return v.reject(sky.ErrStyleRange)
	}

	v.mu.Lock()
	switch {
	case v.closed:
		v.mu.Unlock()
		return v.reject(perr.Conflictf(msgClosed))
	case v.sending:
		v.mu.Unlock()
		return v.reject(perr.Conflictf(msgBusy))
	}
	v.sending = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.sending = false
		v.mu.Unlock()
	}()

	rec, err := v.backend.Insert(ctx, text, c.Style)
	if err != nil {
		v.log.Warn().Err(err).Msg("wish submit failed")
		n := domain.Notice{Kind: domain.NoticeFailure, Title: msgFailedTitle, Message: msgFailedBody}
		v.observe("failure")
		v.notify(n)
		return n
	}

	v.mu.Lock()
	if !v.closed {
		a := sky.AugmentSubmitted(rec, c.Style, v.opts.SubmitDuration, v.rng)
		var added bool
		if v.opts.CapOnSubmit {
			added = v.win.Push(a)
		} else {
			added = v.win.Prepend(a)
		}
		if added {
			v.changed()
		}
	}
	v.mu.Unlock()

	c.Text = ""
	c.Open = false

	motif := sky.MotifFor(c.Style)
	n := domain.Notice{
		Kind:    domain.NoticeSuccess,
		Title:   msgSentTitle,
		Message: msgSentBody,
		WishID:  rec.ID,
		Motif:   &motif,
	}
	v.observe("success")
	v.notify(n)
	return n
}

func (v *View) reject(err error) domain.Notice {
	v.observe("rejected")
	return domain.Notice{Kind: domain.NoticeRejected, Title: msgFailedTitle, Message: perr.WireFrom(err).Message}
}

// Close releases the subscription; later pushes and history results are ignored
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.live = false
	sub := v.sub
	v.sub = nil
	close(v.done)
	v.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// Closed reports whether Close ran
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Items returns the window, newest first
func (v *View) Items() []sky.Augmented {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.win.Items()
}

// Snapshot renders the window into tokens
func (v *View) Snapshot() domain.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return domain.Snapshot{
		ViewID: v.id,
		Live:   v.live,
		Tokens: sky.Tokens(v.win.Items()),
	}
}

// Hello is the first message of a view stream
func (v *View) Hello() domain.Hello {
	v.mu.Lock()
	defer v.mu.Unlock()
	return domain.Hello{
		ViewID: v.id,
		Live:   v.live,
		Stars:  append([]sky.Star(nil), v.stars...),
		Motifs: sky.Motifs(),
	}
}

// changed signals listeners without blocking; callers hold mu
func (v *View) changed() {
	select {
	case v.changes <- struct{}{}:
	default:
	}
}

func (v *View) notify(n domain.Notice) {
	select {
	case v.notices <- n:
	default:
		v.log.Debug().Str("kind", string(n.Kind)).Msg("notice dropped, nobody reading")
	}
}

func (v *View) observe(outcome string) {
	if v.obs != nil {
		v.obs.Submit("view", outcome)
	}
}
