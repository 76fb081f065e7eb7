package entitlement

import (
	"context"

	id "eventdesk/pkg/domain"
)

// CatalogStore abstracts feature catalog reads. The catalog changes rarely;
// the redis-backed implementation layers a TTL cache over another store.
type CatalogStore interface {
	ListCatalog(ctx context.Context) ([]CatalogEntry, error)
}

// PlanStore abstracts plan persistence. Feature mutations are grouped: one
// call per operation kind, never per feature, and never delete-all/reinsert.
type PlanStore interface {
	CreatePlan(ctx context.Context, p *Plan) error
	GetPlan(ctx context.Context, planID id.PlanID) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlanFeatureIDs(ctx context.Context, planID id.PlanID) (IDSet, error)
	// AddPlanFeatures inserts the given entries in one grouped statement.
	// Entries already present are left alone.
	AddPlanFeatures(ctx context.Context, planID id.PlanID, entryIDs []id.CatalogEntryID) error
	// RemovePlanFeatures deletes the given entries in one grouped statement.
	// Entries already absent are left alone.
	RemovePlanFeatures(ctx context.Context, planID id.PlanID, entryIDs []id.CatalogEntryID) error
}
