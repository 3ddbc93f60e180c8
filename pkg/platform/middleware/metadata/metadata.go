package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"poltem/pkg/requestcontext"
)

// Platform labels derived from the User-Agent.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformWeb     = "web"
	PlatformBot     = "bot"
	PlatformUnknown = "unknown"
)

// ClientMetadata extracts client IP, User-Agent, and platform label and
// stores them on the context. Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), ua, PlatformFromUserAgent(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PlatformFromUserAgent classifies a User-Agent into a coarse platform label
// used on audit events and request logs. React Native's default agent
// ("okhttp" on Android, "CFNetwork"/"Darwin" on iOS) is recognised too.
func PlatformFromUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return PlatformUnknown
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "okhttp"):
		return PlatformAndroid
	case strings.Contains(lower, "cfnetwork") || strings.Contains(lower, "darwin"):
		return PlatformIOS
	}

	ua := useragent.New(raw)
	if ua.Bot() {
		return PlatformBot
	}
	osName := strings.ToLower(ua.OSInfo().Name)
	switch {
	case strings.Contains(osName, "android"):
		return PlatformAndroid
	case strings.Contains(osName, "ios") || strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad"):
		return PlatformIOS
	}
	if name, _ := ua.Browser(); name != "" {
		return PlatformWeb
	}
	return PlatformUnknown
}

// ClientIPFromRequest extracts the real client IP, honouring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port"; IPv6 is "[::1]:port".
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}

	return "unknown"
}
