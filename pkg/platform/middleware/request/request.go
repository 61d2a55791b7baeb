// Package request provides request-ID middleware so every log line and error
// response produced while serving one request can be correlated.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"complimart/pkg/requestcontext"
)

// HeaderRequestID is honored when the caller (gateway, load balancer) already
// assigned an ID; otherwise a new UUID is generated.
const HeaderRequestID = "X-Request-ID"

// Middleware ensures a request ID is present in the context and echoed back in
// the response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
