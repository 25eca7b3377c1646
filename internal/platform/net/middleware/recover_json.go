package middleware

import (
	"net/http"
	"runtime/debug"

	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/logger"
	phttp "memorial/internal/platform/net/http"
)

// RecoverJSON turns a panic into the usual 500 error envelope and logs the stack
// http.ErrAbortHandler is re-raised so net/http can drop the connection quietly
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("panic recovered")
			phttp.RespondError(w, r, perr.PanicErrf("internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
