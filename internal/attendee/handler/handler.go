// Package handler wires roster endpoints to the attendee service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventdesk/internal/attendee"
	"eventdesk/internal/attendee/service"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/httputil"
	"eventdesk/pkg/requestcontext"
)

// Service defines the roster operations the handler depends on.
type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*attendee.Attendee, error)
	Get(ctx context.Context, attendeeID id.AttendeeID) (*attendee.Attendee, error)
	ListRoster(ctx context.Context, eventID id.EventID, scope attendee.Scope) ([]attendee.Attendee, error)
	Update(ctx context.Context, attendeeID id.AttendeeID, in service.UpdateInput) (*attendee.Attendee, error)
	Delete(ctx context.Context, attendeeID id.AttendeeID) error
}

// Handler exposes roster CRUD over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts roster endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/{eventID}/attendees", h.HandleCreate)
	r.Get("/events/{eventID}/attendees", h.HandleList)
	r.Get("/attendees/{attendeeID}", h.HandleGet)
	r.Put("/attendees/{attendeeID}", h.HandleUpdate)
	r.Delete("/attendees/{attendeeID}", h.HandleDelete)
}

type createRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
	IsVendor     bool   `json:"is_vendor"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[createRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	created, err := h.service.Create(ctx, service.CreateInput{
		EventID:      eventID,
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Phone:        req.Phone,
		Notes:        req.Notes,
		IsVendor:     req.IsVendor,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	scope, err := attendee.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.ListRoster(ctx, eventID, scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"scope":     scope,
		"attendees": records,
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attendeeID, err := id.ParseAttendeeID(chi.URLParam(r, "attendeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Get(ctx, attendeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

type updateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
	IsVendor     bool   `json:"is_vendor"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attendeeID, err := id.ParseAttendeeID(chi.URLParam(r, "attendeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[updateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, attendeeID, service.UpdateInput{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Phone:        req.Phone,
		Notes:        req.Notes,
		IsVendor:     req.IsVendor,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attendeeID, err := id.ParseAttendeeID(chi.URLParam(r, "attendeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, attendeeID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
