//go:build integration

package entitlement_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"eventdesk/internal/entitlement"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
	"eventdesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *entitlement.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = entitlement.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "plan_features", "plans", "feature_catalog")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seedCatalog(keys ...id.Feature) []id.CatalogEntryID {
	ctx := context.Background()
	entryIDs := make([]id.CatalogEntryID, 0, len(keys))
	for _, key := range keys {
		entryID := id.NewCatalogEntryID()
		_, err := s.postgres.DB.ExecContext(ctx,
			`INSERT INTO feature_catalog (id, key) VALUES ($1, $2)`,
			uuid.UUID(entryID), string(key))
		s.Require().NoError(err)
		entryIDs = append(entryIDs, entryID)
	}
	return entryIDs
}

func (s *PostgresStoreSuite) createPlan(name string) *entitlement.Plan {
	p := &entitlement.Plan{ID: id.NewPlanID(), Name: name}
	s.Require().NoError(s.store.CreatePlan(context.Background(), p))
	return p
}

func (s *PostgresStoreSuite) TestCreatePlanDuplicateName() {
	s.createPlan("Pro")
	err := s.store.CreatePlan(context.Background(), &entitlement.Plan{
		ID: id.NewPlanID(), Name: "Pro",
	})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestPlanFeatureLifecycle() {
	ctx := context.Background()
	entryIDs := s.seedCatalog(id.FeatureDashboard, id.FeatureReports)
	p := s.createPlan("Pro")

	// A fresh plan has no features but is distinguishable from a missing one.
	set, err := s.store.GetPlanFeatureIDs(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(set)
	_, err = s.store.GetPlanFeatureIDs(ctx, id.NewPlanID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.AddPlanFeatures(ctx, p.ID, entryIDs))
	set, err = s.store.GetPlanFeatureIDs(ctx, p.ID)
	s.Require().NoError(err)
	s.Len(set, 2)
	s.True(set.Contains(entryIDs[0]))
	s.True(set.Contains(entryIDs[1]))

	// Re-adding is idempotent.
	s.Require().NoError(s.store.AddPlanFeatures(ctx, p.ID, entryIDs[:1]))
	set, err = s.store.GetPlanFeatureIDs(ctx, p.ID)
	s.Require().NoError(err)
	s.Len(set, 2)

	s.Require().NoError(s.store.RemovePlanFeatures(ctx, p.ID, entryIDs[:1]))
	set, err = s.store.GetPlanFeatureIDs(ctx, p.ID)
	s.Require().NoError(err)
	s.Len(set, 1)
	s.False(set.Contains(entryIDs[0]))
	s.True(set.Contains(entryIDs[1]))
}

func (s *PostgresStoreSuite) TestListCatalog() {
	ctx := context.Background()
	entryIDs := s.seedCatalog(id.FeatureDashboard, id.FeatureReports)

	entries, err := s.store.ListCatalog(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	idx := entitlement.BuildIndex(entries)
	gotID, ok := idx.IDFor(id.FeatureDashboard)
	s.Require().True(ok)
	s.Equal(entryIDs[0], gotID)
}
