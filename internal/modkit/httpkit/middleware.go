package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"memorial/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// origins restricts CORS, empty allows any origin
// metrics are layered on top in api.Mount
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLog(500 * time.Millisecond),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins, MaxAge: 300}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.StreamTimeout(30 * time.Second),
	}
}
