// Package handler wires check-in endpoints to the checkin service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventdesk/internal/checkin"
	"eventdesk/internal/checkin/service"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/httputil"
	"eventdesk/pkg/requestcontext"
)

// Service defines the check-in operations the handler depends on.
type Service interface {
	IssueDeskKey(ctx context.Context, eventID id.EventID, label string) (*checkin.DeskKey, string, error)
	ListDeskKeys(ctx context.Context, eventID id.EventID) ([]checkin.DeskKey, error)
	Record(ctx context.Context, in service.RecordInput) (*checkin.Scan, error)
	ListScans(ctx context.Context, eventID id.EventID) ([]checkin.Scan, error)
}

// Handler exposes desk key management and scan recording over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the admin-facing check-in endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/{eventID}/desk-keys", h.HandleIssueDeskKey)
	r.Get("/events/{eventID}/desk-keys", h.HandleListDeskKeys)
	r.Get("/events/{eventID}/checkins", h.HandleListScans)
}

// RegisterPublic mounts scan recording. Scanning devices authenticate with
// their desk key rather than an admin token, so this route sits outside the
// admin auth chain.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/events/{eventID}/checkins", h.HandleRecord)
}

type issueDeskKeyRequest struct {
	Label string `json:"label"`
}

func (h *Handler) HandleIssueDeskKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[issueDeskKeyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	key, plaintext, err := h.service.IssueDeskKey(ctx, eventID, req.Label)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"desk_key": key,
		"key":      plaintext,
	})
}

func (h *Handler) HandleListDeskKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	keys, err := h.service.ListDeskKeys(ctx, eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"desk_keys": keys})
}

type recordRequest struct {
	AttendeeID string `json:"attendee_id"`
	DeskKeyID  string `json:"desk_key_id"`
	DeskKey    string `json:"desk_key"`
}

func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[recordRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	attendeeID, err := id.ParseAttendeeID(req.AttendeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	deskKeyID, err := id.ParseDeskKeyID(req.DeskKeyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	scan, err := h.service.Record(ctx, service.RecordInput{
		EventID:    eventID,
		AttendeeID: attendeeID,
		DeskKeyID:  deskKeyID,
		DeskKey:    req.DeskKey,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, scan)
}

func (h *Handler) HandleListScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	scans, err := h.service.ListScans(ctx, eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"scans": scans})
}
