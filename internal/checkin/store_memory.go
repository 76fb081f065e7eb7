package checkin

import (
	"context"
	"sort"
	"sync"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

// InMemoryStore keeps scans and desk keys in maps guarded by a RWMutex. Used
// in tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	scans    map[id.ScanID]Scan
	deskKeys map[id.DeskKeyID]DeskKey
	seq      map[id.ScanID]int
	nextSeq  int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		scans:    make(map[id.ScanID]Scan),
		deskKeys: make(map[id.DeskKeyID]DeskKey),
		seq:      make(map[id.ScanID]int),
	}
}

func (s *InMemoryStore) Append(_ context.Context, scan *Scan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.scans {
		if existing.EventID == scan.EventID && existing.AttendeeID == scan.AttendeeID {
			return sentinel.ErrConflict
		}
	}
	s.scans[scan.ID] = *scan
	s.seq[scan.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *InMemoryStore) ListByEvent(_ context.Context, eventID id.EventID) ([]Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Scan
	for _, scan := range s.scans {
		if scan.EventID == eventID {
			out = append(out, scan)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

func (s *InMemoryStore) CountByAttendee(_ context.Context, attendeeIDs []id.AttendeeID) (map[id.AttendeeID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[id.AttendeeID]bool, len(attendeeIDs))
	for _, attendeeID := range attendeeIDs {
		wanted[attendeeID] = true
	}
	counts := make(map[id.AttendeeID]int)
	for _, scan := range s.scans {
		if wanted[scan.AttendeeID] {
			counts[scan.AttendeeID]++
		}
	}
	return counts, nil
}

func (s *InMemoryStore) ReassignAttendee(_ context.Context, from, to id.AttendeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkedIn := make(map[id.EventID]bool)
	for _, scan := range s.scans {
		if scan.AttendeeID == to {
			checkedIn[scan.EventID] = true
		}
	}
	for scanID, scan := range s.scans {
		if scan.AttendeeID != from {
			continue
		}
		if checkedIn[scan.EventID] {
			// The primary already checked in; the duplicate's scan is
			// redundant evidence of the same attendance.
			delete(s.scans, scanID)
			delete(s.seq, scanID)
			continue
		}
		scan.AttendeeID = to
		s.scans[scanID] = scan
		checkedIn[scan.EventID] = true
	}
	return nil
}

func (s *InMemoryStore) CreateDeskKey(_ context.Context, key *DeskKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deskKeys[key.ID]; ok {
		return sentinel.ErrConflict
	}
	s.deskKeys[key.ID] = *key
	return nil
}

func (s *InMemoryStore) GetDeskKey(_ context.Context, keyID id.DeskKeyID) (*DeskKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.deskKeys[keyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &key, nil
}

func (s *InMemoryStore) ListDeskKeys(_ context.Context, eventID id.EventID) ([]DeskKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []DeskKey
	for _, key := range s.deskKeys {
		if key.EventID == eventID {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
