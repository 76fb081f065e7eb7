package request_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/pkg/platform/middleware/request"
	"eventdesk/pkg/requestcontext"
	"eventdesk/pkg/testutil"
)

func TestMiddleware(t *testing.T) {
	var got string
	handler := request.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates request id", func(t *testing.T) {
		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		_, err := uuid.Parse(got)
		require.NoError(t, err)
		assert.Equal(t, got, rr.Header().Get("X-Request-ID"))
	})

	t.Run("propagates incoming request id", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/healthz")
		req.Header.Set("X-Request-ID", "req-from-gateway")

		rr := testutil.DoRequest(handler, req)
		assert.Equal(t, "req-from-gateway", got)
		assert.Equal(t, "req-from-gateway", rr.Header().Get("X-Request-ID"))
	})
}
