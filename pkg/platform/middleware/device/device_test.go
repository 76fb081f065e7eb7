package device_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventdesk/pkg/platform/middleware/device"
	"eventdesk/pkg/requestcontext"
	"eventdesk/pkg/testutil"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"empty", "", "unknown"},
		{"whitespace", "   ", "unknown"},
		{"garbage", "x", "unknown"},
		{
			"desktop chrome",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Chrome/Mac OS X",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, device.Describe(tt.ua))
		})
	}
}

func TestMiddleware(t *testing.T) {
	var gotDevice, gotIP string
	handler := device.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDevice = requestcontext.Device(r.Context())
		gotIP = requestcontext.ClientIP(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("captures device and remote addr", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPost, "/events/x/checkins")
		req.RemoteAddr = "192.0.2.10:51234"
		req.Header.Set("User-Agent", "curl/8.4.0")

		testutil.DoRequest(handler, req)
		assert.NotEmpty(t, gotDevice)
		assert.Equal(t, "192.0.2.10", gotIP)
	})

	t.Run("prefers forwarded-for", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPost, "/events/x/checkins")
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

		testutil.DoRequest(handler, req)
		assert.Equal(t, "203.0.113.7", gotIP)
	})
}
