// Package service orchestrates plan entitlement resolution and feature
// editing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"eventdesk/internal/audit"
	"eventdesk/internal/entitlement"
	entmetrics "eventdesk/internal/entitlement/metrics"
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
	"eventdesk/pkg/platform/sentinel"
	"eventdesk/pkg/requestcontext"
)

// Service resolves plan entitlements and applies feature edits.
type Service struct {
	plans   entitlement.PlanStore
	catalog entitlement.CatalogStore
	logger  *slog.Logger
	auditor audit.Publisher
	metrics *entmetrics.Metrics
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithAudit attaches an audit publisher.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithMetrics attaches entitlement metrics.
func WithMetrics(m *entmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(plans entitlement.PlanStore, catalog entitlement.CatalogStore, logger *slog.Logger, opts ...Option) (*Service, error) {
	if plans == nil {
		return nil, errors.New("plan store is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog store is required")
	}
	s := &Service{
		plans:   plans,
		catalog: catalog,
		logger:  logger,
		auditor: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreatePlan registers a named feature bundle.
func (s *Service) CreatePlan(ctx context.Context, name, description string) (*entitlement.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "plan name cannot be empty")
	}
	p := &entitlement.Plan{
		ID:          id.NewPlanID(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.plans.CreatePlan(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "plan already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create plan")
	}
	return p, nil
}

// ListPlans returns every plan.
func (s *Service) ListPlans(ctx context.Context) ([]entitlement.Plan, error) {
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list plans")
	}
	return plans, nil
}

// FeatureState is one feature's resolved entitlement for a plan.
type FeatureState struct {
	Feature id.Feature `json:"feature"`
	Enabled bool       `json:"enabled"`
}

// Entitlements is a plan's fully resolved feature set.
type Entitlements struct {
	Plan     entitlement.Plan `json:"plan"`
	Features []FeatureState   `json:"features"`
}

// Resolve returns the plan's entitlement for every supported feature.
// Features missing from the catalog resolve to disabled.
func (s *Service) Resolve(ctx context.Context, planID id.PlanID) (*Entitlements, error) {
	plan, enabled, idx, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}

	out := &Entitlements{Plan: *plan}
	for _, feature := range id.AllFeatures() {
		out.Features = append(out.Features, FeatureState{
			Feature: feature,
			Enabled: entitlement.IsEnabled(feature, enabled, idx),
		})
	}
	return out, nil
}

// IsFeatureEnabled is the membership probe behind feature gates. Fail-closed
// on catalog gaps.
func (s *Service) IsFeatureEnabled(ctx context.Context, planID id.PlanID, feature id.Feature) (bool, error) {
	_, enabled, idx, err := s.load(ctx, planID)
	if err != nil {
		return false, err
	}
	return entitlement.IsEnabled(feature, enabled, idx), nil
}

// SaveResult reports what a save changed.
type SaveResult struct {
	Applied entitlement.Diff `json:"applied"`
	Skipped []id.Feature     `json:"skipped_features,omitempty"`
}

// SaveFeatures moves the plan's persisted feature set to the desired feature
// list. The diff is computed server-side against current storage and applied
// as at most two grouped calls, adds first. A failure after the adds have
// been applied surfaces as one aggregated error with no rollback; the caller
// re-fetches to re-derive state.
func (s *Service) SaveFeatures(ctx context.Context, planID id.PlanID, desired []id.Feature) (*SaveResult, error) {
	_, current, idx, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}

	desiredSet, skipped := entitlement.EnableAll(desired, entitlement.NewIDSet(), idx)
	s.warnDrift(ctx, planID, skipped, idx)

	diff := entitlement.ComputeDiff(current, desiredSet)
	if err := s.apply(ctx, planID, diff); err != nil {
		return nil, err
	}
	return &SaveResult{Applied: diff, Skipped: skipped}, nil
}

// BulkToggle enables or disables a group of features at once, on top of the
// plan's current set. Idempotent: re-running a toggle applies an empty diff.
func (s *Service) BulkToggle(ctx context.Context, planID id.PlanID, features []id.Feature, enable bool) (*SaveResult, error) {
	_, current, idx, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}

	var desired entitlement.IDSet
	var skipped []id.Feature
	if enable {
		desired, skipped = entitlement.EnableAll(features, current, idx)
	} else {
		desired, skipped = entitlement.DisableAll(features, current, idx)
	}
	s.warnDrift(ctx, planID, skipped, idx)

	diff := entitlement.ComputeDiff(current, desired)
	if err := s.apply(ctx, planID, diff); err != nil {
		return nil, err
	}
	return &SaveResult{Applied: diff, Skipped: skipped}, nil
}

// load fetches the plan, its enabled set, and a fresh catalog index.
func (s *Service) load(ctx context.Context, planID id.PlanID) (*entitlement.Plan, entitlement.IDSet, entitlement.Index, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, entitlement.Index{}, dErrors.New(dErrors.CodeNotFound, "plan not found")
		}
		return nil, nil, entitlement.Index{}, dErrors.Wrap(err, dErrors.CodeInternal, "load plan")
	}

	enabled, err := s.plans.GetPlanFeatureIDs(ctx, planID)
	if err != nil {
		return nil, nil, entitlement.Index{}, dErrors.Wrap(err, dErrors.CodeInternal, "load plan features")
	}

	entries, err := s.catalog.ListCatalog(ctx)
	if err != nil {
		return nil, nil, entitlement.Index{}, dErrors.Wrap(err, dErrors.CodeInternal, "load feature catalog")
	}

	return plan, enabled, entitlement.BuildIndex(entries), nil
}

// apply persists a diff as grouped store calls and audits the change. An
// empty diff skips storage entirely.
func (s *Service) apply(ctx context.Context, planID id.PlanID, diff entitlement.Diff) error {
	if diff.IsEmpty() {
		return nil
	}

	if len(diff.ToAdd) > 0 {
		if err := s.plans.AddPlanFeatures(ctx, planID, diff.ToAdd); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "add plan features")
		}
		s.metrics.AddFeatureChanges("add", len(diff.ToAdd))
	}
	if len(diff.ToRemove) > 0 {
		if err := s.plans.RemovePlanFeatures(ctx, planID, diff.ToRemove); err != nil {
			// The adds are already in; do not roll them back. One aggregated
			// failure tells the caller to re-fetch.
			return dErrors.Wrap(err, dErrors.CodeInternal, "feature save incomplete: removals failed after additions were applied")
		}
		s.metrics.AddFeatureChanges("remove", len(diff.ToRemove))
	}

	s.emit(ctx, planID, diff)
	s.logger.InfoContext(ctx, "plan features changed",
		"plan_id", planID,
		"added", len(diff.ToAdd),
		"removed", len(diff.ToRemove),
	)
	return nil
}

func (s *Service) warnDrift(ctx context.Context, planID id.PlanID, skipped []id.Feature, idx entitlement.Index) {
	if len(skipped) == 0 {
		return
	}
	s.metrics.IncrementCatalogDrift(len(skipped))
	keys := make([]string, len(skipped))
	for i, feature := range skipped {
		keys[i] = feature.String()
	}
	s.logger.WarnContext(ctx, "features without catalog entries skipped",
		"plan_id", planID,
		"features", strings.Join(keys, ","),
		"catalog_size", idx.Len(),
	)
}

func (s *Service) emit(ctx context.Context, planID id.PlanID, diff entitlement.Diff) {
	details := map[string]string{
		"added":   strconv.Itoa(len(diff.ToAdd)),
		"removed": strconv.Itoa(len(diff.ToRemove)),
	}
	for i, entryID := range diff.ToAdd {
		details["added_"+strconv.Itoa(i)] = entryID.String()
	}
	for i, entryID := range diff.ToRemove {
		details["removed_"+strconv.Itoa(i)] = entryID.String()
	}
	event := audit.Event{
		Category:  audit.CategoryEntitlement,
		Action:    audit.ActionPlanFeaturesChanged,
		Timestamp: requestcontext.Now(ctx),
		Actor:     requestcontext.Actor(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Subject:   planID.String(),
		Details:   details,
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", audit.ActionPlanFeaturesChanged,
			"error", err,
		)
	}
}
