// Package handler wires duplicate review endpoints to the dedupe service.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventdesk/internal/attendee"
	"eventdesk/internal/dedupe/service"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/httputil"
	pstrings "eventdesk/pkg/platform/strings"
	"eventdesk/pkg/requestcontext"
)

// Service defines the dedupe operations the handler depends on.
type Service interface {
	FindDuplicates(ctx context.Context, eventID id.EventID, scope attendee.Scope) ([]service.Review, error)
	Merge(ctx context.Context, in service.MergeInput) (*service.MergeResult, error)
}

// Handler exposes duplicate review and merge execution over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts dedupe endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/events/{eventID}/duplicates", h.HandleFindDuplicates)
	r.Post("/events/{eventID}/merges", h.HandleMerge)
}

func (h *Handler) HandleFindDuplicates(w http.ResponseWriter, r *http.Request) {
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

	reviews, err := h.service.FindDuplicates(ctx, eventID, scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"scope":  scope,
		"groups": reviews,
	})
}

type mergeRequest struct {
	Scope        string   `json:"scope"`
	PrimaryID    string   `json:"primary_id"`
	DuplicateIDs []string `json:"duplicate_ids"`
}

func (h *Handler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[mergeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	scope, err := attendee.ParseScope(req.Scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	primaryID, err := id.ParseAttendeeID(req.PrimaryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// Review UIs resubmit; collapse repeated and padded IDs before parsing.
	submitted := pstrings.DedupeAndTrim(req.DuplicateIDs)
	duplicateIDs := make([]id.AttendeeID, 0, len(submitted))
	for _, raw := range submitted {
		dup, err := id.ParseAttendeeID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		duplicateIDs = append(duplicateIDs, dup)
	}

	result, err := h.service.Merge(ctx, service.MergeInput{
		EventID:      eventID,
		Scope:        scope,
		PrimaryID:    primaryID,
		DuplicateIDs: duplicateIDs,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
