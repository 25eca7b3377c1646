// Package middleware wraps chi middleware behind plain net/http signatures and adds the api's own
package middleware

import (
	"net/http"
	"strings"
	"time"

	"memorial/internal/platform/logger"
	pnet "memorial/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID reuses an incoming X-Request-Id or mints one, echoes it on the response
// and tags the request logger with it
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		tag := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := pnet.RequestID(r.Context())
			w.Header().Set(chimw.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), id, "")))
		})
		return chimw.RequestID(tag)
	}
}

func RealIP() func(http.Handler) http.Handler          { return chimw.RealIP }
func NoCache() func(http.Handler) http.Handler         { return chimw.NoCache }
func RedirectSlashes() func(http.Handler) http.Handler { return chimw.RedirectSlashes }
func StripSlashes() func(http.Handler) http.Handler    { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Compress gzips and deflates responses at level; event streams are flushed as written
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return c.Handler
}

// StreamTimeout cancels ordinary requests after d and leaves event streams open
func StreamTimeout(d time.Duration) func(http.Handler) http.Handler {
	to := chimw.Timeout(d)
	return func(next http.Handler) http.Handler {
		timed := to(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsEventStream(r) {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}

// IsEventStream reports whether the client asked for server sent events
func IsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// CORSOptions limits which browser origins may call the api
// no origins means any origin
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int
}

func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", chimw.RequestIDHeader, "Last-Event-ID"},
		ExposedHeaders: []string{chimw.RequestIDHeader},
		MaxAge:         o.MaxAge,
	})
}
