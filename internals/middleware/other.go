package middle

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type Middleware func(http.Handler) http.Handler

// EchoRequestID returns the id chi assigned to the request, so a client can quote it.
// It must run after middleware.RequestID.
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set(middleware.RequestIDHeader, reqID)
		}
		next.ServeHTTP(w, r)
	})
}
