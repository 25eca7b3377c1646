package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"memorial/internal/core/sky"
	"memorial/internal/services/api/sky/domain"
)

type insertCall struct {
	text  string
	style int
}

type fakeSub struct {
	b    *fakeBackend
	once sync.Once
}

func (s *fakeSub) Close() {
	s.once.Do(func() {
		s.b.mu.Lock()
		s.b.closedSubs++
		s.b.push = nil
		s.b.mu.Unlock()
	})
}

// fakeBackend records calls and lets tests push records by hand
type fakeBackend struct {
	mu sync.Mutex

	history  []sky.Record
	listErr  error
	listGate chan struct{}

	inserts    []insertCall
	insertErr  error
	insertGate chan struct{}
	nextID     int64

	subErr     error
	subs       int
	closedSubs int
	push       func(sky.Record)
	lastPush   func(sky.Record)
}

func (b *fakeBackend) ListRecent(_ context.Context, limit int) ([]sky.Record, error) {
	if b.listGate != nil {
		<-b.listGate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := b.history
	if len(out) > limit {
		out = out[:limit]
	}
	return append([]sky.Record(nil), out...), nil
}

func (b *fakeBackend) Insert(_ context.Context, text string, style int) (sky.Record, error) {
	if b.insertGate != nil {
		<-b.insertGate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inserts = append(b.inserts, insertCall{text, style})
	if b.insertErr != nil {
		return sky.Record{}, b.insertErr
	}
	if b.nextID == 0 {
		b.nextID = 1000
	}
	b.nextID++
	return sky.Record{ID: b.nextID, Text: text, CreatedAt: time.Now().UTC(), StyleIndex: sky.IntPtr(style)}, nil
}

func (b *fakeBackend) Subscribe(_ context.Context, fn func(sky.Record)) (domain.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subErr != nil {
		return nil, b.subErr
	}
	b.subs++
	b.push = fn
	b.lastPush = fn
	return &fakeSub{b: b}, nil
}

// send delivers rec to the live subscriber, if any
func (b *fakeBackend) send(rec sky.Record) {
	b.mu.Lock()
	fn := b.push
	b.mu.Unlock()
	if fn != nil {
		fn(rec)
	}
}

// sendLate delivers rec to the last subscriber even after it closed
func (b *fakeBackend) sendLate(rec sky.Record) {
	b.mu.Lock()
	fn := b.lastPush
	b.mu.Unlock()
	if fn != nil {
		fn(rec)
	}
}

func (b *fakeBackend) insertCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inserts)
}

var errDown = errors.New("backend down")

func wish(id int64) sky.Record {
	return sky.Record{ID: id, Text: "wish", CreatedAt: time.Unix(id, 0).UTC()}
}

func ids(items []sky.Augmented) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

type countObs struct {
	mu      sync.Mutex
	submits map[string]int
	open    int
}

func (c *countObs) Submit(path, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submits == nil {
		c.submits = map[string]int{}
	}
	c.submits[path+"/"+outcome]++
}

func (c *countObs) ViewOpened() { c.mu.Lock(); c.open++; c.mu.Unlock() }
func (c *countObs) ViewClosed() { c.mu.Lock(); c.open--; c.mu.Unlock() }

func (c *countObs) get(k string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submits[k]
}
