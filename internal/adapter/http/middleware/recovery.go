package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/payinstr/internal/domain"
)

// Recovery recovers from panics, logs them and answers with the generic
// malformed-instruction Result so that no internal detail leaks.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error().
					Interface("error", rec).
					Str("stack", string(debug.Stack())).
					Str("request_id", chimiddleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				result := domain.MalformedResult(domain.ReasonUnparseable)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(result.HTTPStatusHint())
				json.NewEncoder(w).Encode(result)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
