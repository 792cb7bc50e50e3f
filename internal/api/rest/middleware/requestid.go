package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHandle tags every request with a correlation identifier exposed in
// the X-Request-ID response header and the request log event.
func RequestIDHandle(log *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			w.Header().Set("X-Request-ID", requestID)
			log.Info().Str("request_id", requestID).Str("method", r.Method).Str("path", r.URL.Path).Msg("request received")
			next.ServeHTTP(w, r)
		})
	}
}
