// Package handler wires booth endpoints to the booth service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventdesk/internal/booth"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/httputil"
	"eventdesk/pkg/requestcontext"
)

// Service defines the booth operations the handler depends on.
type Service interface {
	CreateBooth(ctx context.Context, eventID id.EventID, label string, capacity int) (*booth.Booth, error)
	Assign(ctx context.Context, boothID id.BoothID, attendeeID id.AttendeeID) (*booth.Assignment, error)
	Unassign(ctx context.Context, boothID id.BoothID, attendeeID id.AttendeeID) error
	Occupancy(ctx context.Context, eventID id.EventID) (*booth.Report, error)
}

// Handler exposes booth management over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts booth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/{eventID}/booths", h.HandleCreateBooth)
	r.Get("/events/{eventID}/booths/occupancy", h.HandleOccupancy)
	r.Post("/booths/{boothID}/assignments", h.HandleAssign)
	r.Delete("/booths/{boothID}/assignments/{attendeeID}", h.HandleUnassign)
}

type createBoothRequest struct {
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

func (h *Handler) HandleCreateBooth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[createBoothRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	created, err := h.service.CreateBooth(ctx, eventID, req.Label, req.Capacity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.Occupancy(ctx, eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

type assignRequest struct {
	AttendeeID string `json:"attendee_id"`
}

func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boothID, err := id.ParseBoothID(chi.URLParam(r, "boothID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[assignRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	attendeeID, err := id.ParseAttendeeID(req.AttendeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assignment, err := h.service.Assign(ctx, boothID, attendeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boothID, err := id.ParseBoothID(chi.URLParam(r, "boothID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attendeeID, err := id.ParseAttendeeID(chi.URLParam(r, "attendeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Unassign(ctx, boothID, attendeeID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
