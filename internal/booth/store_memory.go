package booth

import (
	"context"
	"sort"
	"sync"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

type assignmentKey struct {
	boothID    id.BoothID
	attendeeID id.AttendeeID
}

// InMemoryStore keeps booths and assignments in maps guarded by a RWMutex.
// Used in tests and local development.
type InMemoryStore struct {
	mu          sync.RWMutex
	booths      map[id.BoothID]Booth
	boothSeq    map[id.BoothID]int
	assignments map[assignmentKey]Assignment
	assignSeq   map[assignmentKey]int
	nextSeq     int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		booths:      make(map[id.BoothID]Booth),
		boothSeq:    make(map[id.BoothID]int),
		assignments: make(map[assignmentKey]Assignment),
		assignSeq:   make(map[assignmentKey]int),
	}
}

func (s *InMemoryStore) CreateBooth(_ context.Context, b *Booth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.booths[b.ID]; ok {
		return sentinel.ErrConflict
	}
	s.booths[b.ID] = *b
	s.boothSeq[b.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *InMemoryStore) GetBooth(_ context.Context, boothID id.BoothID) (*Booth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.booths[boothID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &b, nil
}

func (s *InMemoryStore) ListBooths(_ context.Context, eventID id.EventID) ([]Booth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Booth
	for _, b := range s.booths {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.boothSeq[out[i].ID] < s.boothSeq[out[j].ID]
	})
	return out, nil
}

func (s *InMemoryStore) Assign(_ context.Context, a *Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := assignmentKey{boothID: a.BoothID, attendeeID: a.AttendeeID}
	if _, ok := s.assignments[key]; ok {
		return sentinel.ErrConflict
	}
	s.assignments[key] = *a
	s.assignSeq[key] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *InMemoryStore) Unassign(_ context.Context, boothID id.BoothID, attendeeID id.AttendeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := assignmentKey{boothID: boothID, attendeeID: attendeeID}
	if _, ok := s.assignments[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.assignments, key)
	delete(s.assignSeq, key)
	return nil
}

func (s *InMemoryStore) ListAssignments(_ context.Context, eventID id.EventID) ([]Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []assignmentKey
	for key, a := range s.assignments {
		if b, ok := s.booths[a.BoothID]; ok && b.EventID == eventID {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return s.assignSeq[keys[i]] < s.assignSeq[keys[j]]
	})
	out := make([]Assignment, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.assignments[key])
	}
	return out, nil
}

func (s *InMemoryStore) ReassignAttendee(_ context.Context, from, to id.AttendeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.assignments {
		if key.attendeeID != from {
			continue
		}
		delete(s.assignments, key)
		seq := s.assignSeq[key]
		delete(s.assignSeq, key)

		target := assignmentKey{boothID: key.boothID, attendeeID: to}
		if _, ok := s.assignments[target]; ok {
			// Already staffed by the primary; the duplicate's row is
			// redundant.
			continue
		}
		a.AttendeeID = to
		s.assignments[target] = a
		s.assignSeq[target] = seq
	}
	return nil
}
