package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func stackMux(origins ...string) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(CommonStack(origins...)...)
	mux.Get("/candles", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("wax everywhere") })
	return mux
}

func TestCommonStack(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		origin string
		want   int
		check  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{name: "reaches handler", path: "/candles", want: http.StatusNoContent, check: func(t *testing.T, rr *httptest.ResponseRecorder) {
			if rr.Header().Get("X-Request-ID") == "" {
				t.Fatal("missing request id")
			}
			if rr.Header().Get("Cache-Control") == "" {
				t.Fatal("missing no cache headers")
			}
		}},
		{name: "heartbeat", path: "/health", want: http.StatusOK},
		{name: "trailing slash", path: "/candles/", want: http.StatusMovedPermanently},
		{name: "panic becomes json", path: "/boom", want: http.StatusInternalServerError, check: func(t *testing.T, rr *httptest.ResponseRecorder) {
			if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Fatalf("content type = %q", ct)
			}
		}},
		{name: "cors echo", path: "/candles", origin: "https://example.org", want: http.StatusNoContent, check: func(t *testing.T, rr *httptest.ResponseRecorder) {
			if rr.Header().Get("Access-Control-Allow-Origin") == "" {
				t.Fatal("open cors should allow any origin")
			}
		}},
	}
	mux := stackMux()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d body=%s", rr.Code, tc.want, rr.Body.String())
			}
			if tc.check != nil {
				tc.check(t, rr)
			}
		})
	}
}

func TestCommonStack_RestrictedOrigins(t *testing.T) {
	mux := stackMux("https://memorial.example")
	req := httptest.NewRequest(http.MethodGet, "/candles", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}
