package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "memorial/internal/platform/errors"
)

// stdWriter exposes only the ResponseWriter methods of a recorder
type stdWriter struct{ stdhttp.ResponseWriter }

func TestOpenStream_HeadersAndEvents(t *testing.T) {
	rr := httptest.NewRecorder()
	s, err := OpenStream(rr)
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	if err := s.Event("hello", map[string]int{"n": 1}); err != nil {
		t.Fatalf("Event: %v", err)
	}
	if err := s.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "event: hello\ndata: {\"n\":1}\n\n") {
		t.Fatalf("body = %q", body)
	}
	if !strings.HasSuffix(body, ": ping\n\n") {
		t.Fatalf("ping missing: %q", body)
	}
	if !rr.Flushed {
		t.Fatalf("stream was never flushed")
	}
}

func TestOpenStream_RequiresFlusher(t *testing.T) {
	w := stdWriter{httptest.NewRecorder()}
	if _, err := OpenStream(w); err == nil {
		t.Fatalf("expected error for non flushing writer")
	}
}

func TestStream_EncodeError(t *testing.T) {
	s, _ := OpenStream(httptest.NewRecorder())
	err := s.Event("bad", make(chan int))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("err = %v, want json code", err)
	}
}
