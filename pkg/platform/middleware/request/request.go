// Package request provides request-ID middleware. Every request gets a
// correlation ID (incoming X-Request-ID if present, otherwise a fresh UUID)
// that flows through logs and audit events.
package request

import (
	"net/http"

	"github.com/google/uuid"

	"eventdesk/pkg/requestcontext"
)

const headerRequestID = "X-Request-ID"

// Middleware stores a request ID in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
