package http

import (
	"bufio"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"memorial/internal/core/sky"
	phttp "memorial/internal/platform/net/http"
	"memorial/internal/services/api/sky/domain"
	svc "memorial/internal/services/api/sky/service"

	"github.com/go-chi/chi/v5"
)

type memSub struct{ b *memBackend }

func (s memSub) Close() {
	s.b.mu.Lock()
	s.b.push = nil
	s.b.mu.Unlock()
}

// memBackend keeps wishes in memory and pushes inserts to the last subscriber
type memBackend struct {
	mu     sync.Mutex
	recs   []sky.Record
	push   func(sky.Record)
	nextID int64
}

func (b *memBackend) ListRecent(_ context.Context, limit int) ([]sky.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]sky.Record, 0, limit)
	for i := len(b.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, b.recs[i])
	}
	return out, nil
}

func (b *memBackend) Insert(_ context.Context, text string, style int) (sky.Record, error) {
	b.mu.Lock()
	b.nextID++
	rec := sky.Record{ID: b.nextID, Text: text, CreatedAt: time.Now().UTC(), StyleIndex: sky.IntPtr(style)}
	b.recs = append(b.recs, rec)
	fn := b.push
	b.mu.Unlock()
	if fn != nil {
		fn(rec)
	}
	return rec, nil
}

func (b *memBackend) Subscribe(_ context.Context, fn func(sky.Record)) (domain.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.push = fn
	return memSub{b: b}, nil
}

func newServer(t *testing.T, b *memBackend) (*httptest.Server, *svc.Svc) {
	t.Helper()
	s := svc.New(b, svc.DefaultOptions(), svc.WithRand(func() sky.Rand { return sky.NewRand(5) }))
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), s, time.Hour)
	srv := httptest.NewServer(m)
	t.Cleanup(srv.Close)
	return srv, s
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Data       json.RawMessage `json:"data"`
}

func do(t *testing.T, method, url, body string) envelope {
	t.Helper()
	req, err := stdhttp.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := stdhttp.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.StatusCode != res.StatusCode {
		t.Fatalf("envelope status %d != %d", env.StatusCode, res.StatusCode)
	}
	return env
}

func TestSubmitAndRecent(t *testing.T) {
	srv, _ := newServer(t, &memBackend{})

	env := do(t, "POST", srv.URL+"/wishes", `{"wish_text":"  luz  ","style_index":3}`)
	if env.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("status = %d (%s)", env.StatusCode, env.Error)
	}
	var rec sky.Record
	_ = json.Unmarshal(env.Data, &rec)
	if rec.ID != 1 || rec.Text != "luz" {
		t.Fatalf("record = %+v", rec)
	}

	env = do(t, "GET", srv.URL+"/wishes?limit=5", "")
	var recs []sky.Record
	_ = json.Unmarshal(env.Data, &recs)
	if len(recs) != 1 || recs[0].ID != 1 {
		t.Fatalf("recent = %+v", recs)
	}
}

func TestSubmitValidation(t *testing.T) {
	srv, _ := newServer(t, &memBackend{})

	cases := []struct {
		name, body, field string
	}{
		{"missing style", `{"wish_text":"hola"}`, "style_index"},
		{"style range", `{"wish_text":"hola","style_index":9}`, "style_index"},
		{"blank", `{"wish_text":"   ","style_index":1}`, "wish_text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := do(t, "POST", srv.URL+"/wishes", tc.body)
			if env.StatusCode != stdhttp.StatusBadRequest {
				t.Fatalf("status = %d", env.StatusCode)
			}
			if env.Field != tc.field {
				t.Fatalf("field = %q, want %q", env.Field, tc.field)
			}
		})
	}
}

func TestRecent_BadLimit(t *testing.T) {
	srv, _ := newServer(t, &memBackend{})
	env := do(t, "GET", srv.URL+"/wishes?limit=lots", "")
	if env.StatusCode != stdhttp.StatusBadRequest || env.Field != "limit" {
		t.Fatalf("env = %+v", env)
	}
}

func TestMotifs(t *testing.T) {
	srv, _ := newServer(t, &memBackend{})
	env := do(t, "GET", srv.URL+"/motifs", "")
	var motifs []map[string]any
	_ = json.Unmarshal(env.Data, &motifs)
	if len(motifs) != sky.StyleCount {
		t.Fatalf("motifs = %d", len(motifs))
	}
}

func TestSubmitInView_UnknownView(t *testing.T) {
	srv, _ := newServer(t, &memBackend{})
	env := do(t, "POST", srv.URL+"/views/nope/wishes", `{"wish_text":"x","style_index":0}`)
	if env.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("status = %d", env.StatusCode)
	}
}

type event struct {
	name string
	data string
}

func readEvents(t *testing.T, sc *bufio.Scanner, out chan<- event) {
	t.Helper()
	var ev event
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		case line == "" && ev.name != "":
			out <- ev
			ev = event{}
		}
	}
	close(out)
}

func next(t *testing.T, ch <-chan event, name string) event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("stream ended before %s", name)
			}
			if ev.name == name {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event", name)
		}
	}
}

func TestStream_LiveView(t *testing.T) {
	b := &memBackend{}
	b.recs = []sky.Record{{ID: 1, Text: "primera", CreatedAt: time.Now().UTC()}}
	b.nextID = 1
	srv, s := newServer(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := stdhttp.NewRequestWithContext(ctx, "GET", srv.URL+"/stream", nil)
	req.Header.Set("Accept", "text/event-stream")
	res, err := stdhttp.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if ct := res.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	events := make(chan event, 16)
	go readEvents(t, bufio.NewScanner(res.Body), events)

	var hello domain.Hello
	if err := json.Unmarshal([]byte(next(t, events, "hello").data), &hello); err != nil {
		t.Fatal(err)
	}
	if hello.ViewID == "" || !hello.Live {
		t.Fatalf("hello = %+v", hello)
	}

	var snap domain.Snapshot
	_ = json.Unmarshal([]byte(next(t, events, "window").data), &snap)
	if len(snap.Tokens) != 1 || snap.Tokens[0].ID != 1 {
		t.Fatalf("first window = %+v", snap)
	}

	env := do(t, "POST", srv.URL+"/views/"+hello.ViewID+"/wishes", `{"wish_text":"segunda","style_index":2,"open":true}`)
	var result domain.SubmitResult
	_ = json.Unmarshal(env.Data, &result)
	if !result.Notice.OK() || result.Composer.Text != "" || result.Composer.Open {
		t.Fatalf("result = %+v", result)
	}

	// the push and the notice race; wait for both in any order
	var gotNotice, gotWindow bool
	timeout := time.After(3 * time.Second)
	for !gotNotice || !gotWindow {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("stream ended")
			}
			switch ev.name {
			case "notice":
				var n domain.Notice
				_ = json.Unmarshal([]byte(ev.data), &n)
				if n.WishID != 2 || !n.OK() {
					t.Fatalf("notice = %+v", n)
				}
				gotNotice = true
			case "window":
				_ = json.Unmarshal([]byte(ev.data), &snap)
				if len(snap.Tokens) == 2 && snap.Tokens[0].ID == 2 {
					gotWindow = true
				}
			}
		case <-timeout:
			t.Fatalf("notice=%v window=%v", gotNotice, gotWindow)
		}
	}

	cancel()
	deadline := time.Now().Add(3 * time.Second)
	for s.Views() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("view not closed after client left")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
