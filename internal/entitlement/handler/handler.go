// Package handler wires plan entitlement endpoints to the entitlement
// service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventdesk/internal/entitlement"
	"eventdesk/internal/entitlement/service"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/httputil"
	"eventdesk/pkg/requestcontext"
)

// Service defines the entitlement operations the handler depends on.
type Service interface {
	CreatePlan(ctx context.Context, name, description string) (*entitlement.Plan, error)
	ListPlans(ctx context.Context) ([]entitlement.Plan, error)
	Resolve(ctx context.Context, planID id.PlanID) (*service.Entitlements, error)
	IsFeatureEnabled(ctx context.Context, planID id.PlanID, feature id.Feature) (bool, error)
	SaveFeatures(ctx context.Context, planID id.PlanID, desired []id.Feature) (*service.SaveResult, error)
	BulkToggle(ctx context.Context, planID id.PlanID, features []id.Feature, enable bool) (*service.SaveResult, error)
}

// Handler exposes plan and feature management over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts entitlement endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/plans", h.HandleCreatePlan)
	r.Get("/plans", h.HandleListPlans)
	r.Get("/plans/{planID}/features", h.HandleResolve)
	r.Patch("/plans/{planID}/features", h.HandleSaveFeatures)
	r.Post("/plans/{planID}/features/toggles", h.HandleBulkToggle)
	r.Get("/plans/{planID}/features/{feature}", h.HandleProbe)
}

type createPlanRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[createPlanRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	created, err := h.service.CreatePlan(ctx, req.Name, req.Description)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resolved, err := h.service.Resolve(ctx, planID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resolved)
}

type saveFeaturesRequest struct {
	Features []string `json:"features"`
}

func (h *Handler) HandleSaveFeatures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[saveFeaturesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	desired, err := parseFeatures(req.Features)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.SaveFeatures(ctx, planID, desired)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

type bulkToggleRequest struct {
	Features []string `json:"features"`
	Enable   bool     `json:"enable"`
}

func (h *Handler) HandleBulkToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[bulkToggleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	features, err := parseFeatures(req.Features)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.BulkToggle(ctx, planID, features, req.Enable)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleProbe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	feature, err := id.ParseFeature(chi.URLParam(r, "feature"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	enabled, err := h.service.IsFeatureEnabled(ctx, planID, feature)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"feature": feature,
		"enabled": enabled,
	})
}

func parseFeatures(raw []string) ([]id.Feature, error) {
	out := make([]id.Feature, 0, len(raw))
	for _, s := range raw {
		feature, err := id.ParseFeature(s)
		if err != nil {
			return nil, err
		}
		out = append(out, feature)
	}
	return out, nil
}
