package attendee

import (
	"context"
	"sort"
	"sync"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

// InMemoryStore keeps the roster in a map guarded by a RWMutex. Used in tests
// and local development.
type InMemoryStore struct {
	mu        sync.RWMutex
	attendees map[id.AttendeeID]Attendee
	seq       map[id.AttendeeID]int
	nextSeq   int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		attendees: make(map[id.AttendeeID]Attendee),
		seq:       make(map[id.AttendeeID]int),
	}
}

func (s *InMemoryStore) Create(_ context.Context, a *Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attendees[a.ID]; ok {
		return sentinel.ErrConflict
	}
	s.attendees[a.ID] = *a
	s.seq[a.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, attendeeID id.AttendeeID) (*Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attendees[attendeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemoryStore) ListByEvent(_ context.Context, eventID id.EventID, scope Scope) ([]Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Attendee
	for _, a := range s.attendees {
		if a.EventID == eventID && scope.Matches(&a) {
			out = append(out, a)
		}
	}
	// Creation order, matching the postgres store's ORDER BY.
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, a *Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attendees[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.attendees[a.ID] = *a
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, attendeeID id.AttendeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attendees[attendeeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.attendees, attendeeID)
	delete(s.seq, attendeeID)
	return nil
}
