// Package httpapi assembles the HTTP surface: middleware chain, operational
// endpoints, and the domain handlers.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attendeehandler "eventdesk/internal/attendee/handler"
	boothhandler "eventdesk/internal/booth/handler"
	checkinhandler "eventdesk/internal/checkin/handler"
	dedupehandler "eventdesk/internal/dedupe/handler"
	entitlementhandler "eventdesk/internal/entitlement/handler"
	"eventdesk/pkg/platform/middleware/auth"
	"eventdesk/pkg/platform/middleware/device"
	"eventdesk/pkg/platform/middleware/request"
	"eventdesk/pkg/platform/middleware/requesttime"
)

// Handlers collects the domain handlers mounted on the router.
type Handlers struct {
	Attendees    *attendeehandler.Handler
	Dedupe       *dedupehandler.Handler
	Checkins     *checkinhandler.Handler
	Booths       *boothhandler.Handler
	Entitlements *entitlementhandler.Handler
}

// NewRouter wires the full API. All domain routes require an admin bearer
// token except scan recording, which devices authenticate with a desk key.
func NewRouter(h Handlers, verifier *auth.Verifier, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(device.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		h.Checkins.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(verifier, logger))

		h.Attendees.Register(r)
		h.Dedupe.Register(r)
		h.Checkins.Register(r)
		h.Booths.Register(r)
		h.Entitlements.Register(r)
	})

	return r
}
