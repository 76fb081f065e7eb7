// Package device captures client metadata for check-in attribution: the
// client IP and a human-readable device description derived from the
// User-Agent header. Scan records carry the description so operators can see
// which desk hardware produced a check-in.
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"eventdesk/pkg/requestcontext"
)

// Middleware extracts client IP and device description from the request and
// adds them to the context. Apply early in the chain.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = requestcontext.WithClientIP(ctx, clientIPFromRequest(r))
		ctx = requestcontext.WithDevice(ctx, Describe(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Describe condenses a User-Agent string into "browser/os" (e.g.
// "Safari/iOS"). Empty or unparseable agents yield "unknown".
func Describe(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	switch {
	case browser == "" && os == "":
		return "unknown"
	case os == "":
		return browser
	case browser == "":
		return os
	default:
		return browser + "/" + os
	}
}

// clientIPFromRequest extracts the client IP, handling proxies.
func clientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First entry is the original client.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	// RemoteAddr is "ip:port" ("[::1]:port" for IPv6).
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}
	return ""
}
