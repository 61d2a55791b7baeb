// Package device derives a human-readable device name from the User-Agent
// header. Notification state is partitioned per identity, not per device, but
// session operations on a shared device (logout reset, acknowledge-all) log
// which device they came from.
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"complimart/pkg/requestcontext"
)

// Middleware parses the User-Agent header and stores the derived device name
// in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ParseUserAgent(r.Header.Get("User-Agent"))
		ctx := requestcontext.WithDeviceName(r.Context(), name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseUserAgent converts a raw User-Agent string into a short display name
// such as "Chrome on Mac OS X". Unknown or empty agents map to
// "Unknown Device".
func ParseUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown Device"
	}
}
