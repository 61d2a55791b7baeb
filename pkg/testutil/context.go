package testutil

import (
	"net/http"
	"time"

	id "complimart/pkg/domain"
	"complimart/pkg/requestcontext"
)

// WithSession adds a user ID and role to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithSession(req *http.Request, userID string, role id.Role) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithTime pins the request-scoped time, making notification IDs
// deterministic for the duration of the request.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithDeviceName adds a parsed device name to the request context.
func WithDeviceName(req *http.Request, name string) *http.Request {
	return req.WithContext(requestcontext.WithDeviceName(req.Context(), name))
}
