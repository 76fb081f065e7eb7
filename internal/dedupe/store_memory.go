package dedupe

import (
	"context"
	"fmt"

	"eventdesk/internal/attendee"
)

// InMemoryMergeStore fans a merge out across the in-memory stores: dependent
// rows are re-pointed first, then the duplicate roster rows are deleted.
// Ordering gives best-effort safety without transactions; a failure mid-merge
// leaves extra roster rows behind but never orphans dependent rows. Used in
// tests and local development.
type InMemoryMergeStore struct {
	attendees  attendee.Store
	dependents []Reassigner
}

func NewInMemoryMergeStore(attendees attendee.Store, dependents ...Reassigner) *InMemoryMergeStore {
	return &InMemoryMergeStore{attendees: attendees, dependents: dependents}
}

func (s *InMemoryMergeStore) ApplyMerge(ctx context.Context, instr MergeInstruction) error {
	for _, dup := range instr.DuplicateIDs {
		for _, dep := range s.dependents {
			if err := dep.ReassignAttendee(ctx, dup, instr.PrimaryID); err != nil {
				return fmt.Errorf("reassign dependents of %s: %w", dup, err)
			}
		}
	}
	for _, dup := range instr.DuplicateIDs {
		if err := s.attendees.Delete(ctx, dup); err != nil {
			return fmt.Errorf("delete duplicate %s: %w", dup, err)
		}
	}
	return nil
}

var _ MergeStore = (*InMemoryMergeStore)(nil)
