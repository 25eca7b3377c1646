package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"memorial/internal/platform/net/middleware"
)

type accessLine struct {
	Level  string `json:"level"`
	Status int    `json:"status"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
	ReqID  string `json:"request_id"`
}

func lastLine(t *testing.T) accessLine {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(logs.take()), "\n")
	var l accessLine
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &l); err != nil {
		t.Fatalf("decode %q: %v", lines[len(lines)-1], err)
	}
	return l
}

func TestAccessLog(t *testing.T) {
	cases := []struct {
		name      string
		slow      time.Duration
		accept    string
		sleep     time.Duration
		status    int
		wantLevel string
	}{
		{name: "fast", wantLevel: "info"},
		{name: "server error", status: http.StatusBadGateway, wantLevel: "error"},
		{name: "server error beats slow", slow: time.Nanosecond, sleep: time.Millisecond, status: http.StatusInternalServerError, wantLevel: "error"},
		{name: "slow", slow: time.Nanosecond, sleep: time.Millisecond, wantLevel: "warn"},
		{name: "slow disabled", sleep: time.Millisecond, wantLevel: "info"},
		{name: "stream never slow", slow: time.Nanosecond, accept: "text/event-stream", sleep: time.Millisecond, wantLevel: "info"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := tc.status
			if status == 0 {
				status = http.StatusCreated
			}
			h := middleware.RequestID()(middleware.AccessLog(tc.slow)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(tc.sleep)
				w.WriteHeader(status)
				_, _ = w.Write([]byte("lit"))
			})))

			logs.take()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/candles", nil)
			req.Header.Set("X-Request-Id", "req-7")
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != status || rr.Body.String() != "lit" {
				t.Fatalf("response = %d %q", rr.Code, rr.Body.String())
			}
			l := lastLine(t)
			want := accessLine{Level: tc.wantLevel, Status: status, Method: "POST", Path: "/api/v1/candles", Bytes: 3, ReqID: "req-7"}
			if l != want {
				t.Fatalf("line = %+v, want %+v", l, want)
			}
		})
	}
}
