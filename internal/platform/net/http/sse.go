package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"sync"

	perr "memorial/internal/platform/errors"
)

// Stream writes server-sent events to one client
// Event and Ping may be called from several goroutines
type Stream struct {
	mu sync.Mutex
	w  stdhttp.ResponseWriter
	f  stdhttp.Flusher
}

// OpenStream sends the event-stream headers and returns the writer
// it fails when the response writer cannot flush
func OpenStream(w stdhttp.ResponseWriter) (*Stream, error) {
	f, ok := w.(stdhttp.Flusher)
	if !ok {
		return nil, perr.Newf(perr.ErrorCodeUnknown, "streaming unsupported")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(stdhttp.StatusOK)
	f.Flush()
	return &Stream{w: w, f: f}, nil
}

// Event writes one named event with v encoded as JSON in the data line
func (s *Stream) Event(name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode %s event", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, b); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

// Ping writes a comment line so idle proxies keep the connection open
func (s *Stream) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}
