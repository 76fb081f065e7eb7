package entitlement

import (
	"context"
	"sort"
	"sync"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

// InMemoryStore keeps the catalog and plans in maps guarded by a RWMutex.
// Used in tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	catalog  []CatalogEntry
	plans    map[id.PlanID]Plan
	features map[id.PlanID]IDSet
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		plans:    make(map[id.PlanID]Plan),
		features: make(map[id.PlanID]IDSet),
	}
}

// SeedCatalog replaces the catalog contents.
func (s *InMemoryStore) SeedCatalog(entries []CatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append([]CatalogEntry{}, entries...)
}

func (s *InMemoryStore) ListCatalog(_ context.Context) ([]CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CatalogEntry{}, s.catalog...), nil
}

func (s *InMemoryStore) CreatePlan(_ context.Context, p *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[p.ID]; ok {
		return sentinel.ErrConflict
	}
	s.plans[p.ID] = *p
	s.features[p.ID] = make(IDSet)
	return nil
}

func (s *InMemoryStore) GetPlan(_ context.Context, planID id.PlanID) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[planID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) ListPlans(_ context.Context) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) GetPlanFeatureIDs(_ context.Context, planID id.PlanID) (IDSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.features[planID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return set.Clone(), nil
}

func (s *InMemoryStore) AddPlanFeatures(_ context.Context, planID id.PlanID, entryIDs []id.CatalogEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.features[planID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, entryID := range entryIDs {
		set[entryID] = struct{}{}
	}
	return nil
}

func (s *InMemoryStore) RemovePlanFeatures(_ context.Context, planID id.PlanID, entryIDs []id.CatalogEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.features[planID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, entryID := range entryIDs {
		delete(set, entryID)
	}
	return nil
}
