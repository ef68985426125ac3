package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coachdesk/coachdesk/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"remote addr", nil, "192.0.2.10:4000", "192.0.2.10"},
		{"remote addr without port", nil, "192.0.2.10", "192.0.2.10"},
		{"ipv6 remote addr", nil, "[2001:db8::1]:4000", "2001:db8::1"},
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "203.0.113.1", "X-Forwarded-For": "198.51.100.1"}, "192.0.2.10:4000", "203.0.113.1"},
		{"first valid forwarded entry", map[string]string{"X-Forwarded-For": "garbage, 198.51.100.1, 198.51.100.2"}, "192.0.2.10:4000", "198.51.100.1"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.3 "}, "192.0.2.10:4000", "198.51.100.3"},
		{"invalid headers fall through", map[string]string{"CF-Connecting-IP": "nope", "X-Real-IP": "999.1.1.1"}, "192.0.2.10:4000", "192.0.2.10"},
		{"ipv4 mapped address is unmapped", map[string]string{"X-Forwarded-For": "::ffff:198.51.100.7"}, "192.0.2.10:4000", "198.51.100.7"},
		{"nothing valid", nil, "not-an-ip", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(req))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "198.51.100.9", got)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := clientip.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(clientip.WithContext(context.Background(), "198.51.100.9"))
	assert.True(t, ok)
	assert.Equal(t, "client_ip", attr.Key)
	assert.Equal(t, "198.51.100.9", attr.Value.String())
}
