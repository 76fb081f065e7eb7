package entitlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

// PostgresStore persists the feature catalog and plans in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE feature_catalog (
//	    id  UUID PRIMARY KEY,
//	    key TEXT NOT NULL UNIQUE
//	);
//
//	CREATE TABLE plans (
//	    id          UUID PRIMARY KEY,
//	    name        TEXT NOT NULL UNIQUE,
//	    description TEXT NOT NULL DEFAULT ''
//	);
//
//	CREATE TABLE plan_features (
//	    plan_id    UUID NOT NULL REFERENCES plans (id),
//	    catalog_id UUID NOT NULL REFERENCES feature_catalog (id),
//	    PRIMARY KEY (plan_id, catalog_id)
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListCatalog(ctx context.Context) ([]CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, key FROM feature_catalog ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var out []CatalogEntry
	for rows.Next() {
		var entryID uuid.UUID
		var key string
		if err := rows.Scan(&entryID, &key); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		out = append(out, CatalogEntry{ID: id.CatalogEntryID(entryID), Key: id.Feature(key)})
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreatePlan(ctx context.Context, p *Plan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (id, name, description) VALUES ($1, $2, $3)`,
		uuid.UUID(p.ID), p.Name, p.Description,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPlan(ctx context.Context, planID id.PlanID) (*Plan, error) {
	var p Plan
	var pID uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description FROM plans WHERE id = $1`,
		uuid.UUID(planID),
	).Scan(&pID, &p.Name, &p.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	p.ID = id.PlanID(pID)
	return &p, nil
}

func (s *PostgresStore) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var p Plan
		var pID uuid.UUID
		if err := rows.Scan(&pID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		p.ID = id.PlanID(pID)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPlanFeatureIDs(ctx context.Context, planID id.PlanID) (IDSet, error) {
	// Distinguish a plan with no features from a plan that does not exist.
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT catalog_id FROM plan_features WHERE plan_id = $1`,
		uuid.UUID(planID),
	)
	if err != nil {
		return nil, fmt.Errorf("get plan features: %w", err)
	}
	defer rows.Close()

	set := make(IDSet)
	for rows.Next() {
		var entryID uuid.UUID
		if err := rows.Scan(&entryID); err != nil {
			return nil, fmt.Errorf("scan plan feature: %w", err)
		}
		set[id.CatalogEntryID(entryID)] = struct{}{}
	}
	return set, rows.Err()
}

func (s *PostgresStore) AddPlanFeatures(ctx context.Context, planID id.PlanID, entryIDs []id.CatalogEntryID) error {
	if len(entryIDs) == 0 {
		return nil
	}
	// One grouped statement per save; ON CONFLICT keeps concurrent adds of
	// the same entry idempotent.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_features (plan_id, catalog_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`,
		uuid.UUID(planID), pq.Array(rawEntryIDs(entryIDs)),
	)
	if err != nil {
		return fmt.Errorf("add plan features: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemovePlanFeatures(ctx context.Context, planID id.PlanID, entryIDs []id.CatalogEntryID) error {
	if len(entryIDs) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM plan_features
		WHERE plan_id = $1 AND catalog_id = ANY($2)`,
		uuid.UUID(planID), pq.Array(rawEntryIDs(entryIDs)),
	)
	if err != nil {
		return fmt.Errorf("remove plan features: %w", err)
	}
	return nil
}

func rawEntryIDs(ids []id.CatalogEntryID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, entryID := range ids {
		out[i] = uuid.UUID(entryID)
	}
	return out
}
