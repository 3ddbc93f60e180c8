package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"poltem/pkg/requestcontext"
)

func TestPlatformFromUserAgent(t *testing.T) {
	tests := map[string]string{
		"":                     PlatformUnknown,
		"okhttp/4.9.2":         PlatformAndroid,
		"Poltem/12 CFNetwork/1410.0.3 Darwin/22.6.0": PlatformIOS,
		"Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Mobile Safari/537.36": PlatformAndroid,
		"Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1": PlatformIOS,
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36":               PlatformWeb,
		"Googlebot/2.1 (+http://www.google.com/bot.html)": PlatformBot,
	}
	for ua, want := range tests {
		assert.Equal(t, want, PlatformFromUserAgent(ua), ua)
	}
}

func TestClientMetadata(t *testing.T) {
	var ip, platform string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		platform = requestcontext.Platform(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.Header.Set("User-Agent", "okhttp/4.9.2")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "203.0.113.7", ip)
	assert.Equal(t, PlatformAndroid, platform)
}

func TestClientIPFromRequest_RemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "[::1]:5000"
	assert.Equal(t, "::1", ClientIPFromRequest(r))
}
