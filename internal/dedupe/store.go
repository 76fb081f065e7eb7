package dedupe

import (
	"context"

	id "eventdesk/pkg/domain"
)

// MergeStore applies the storage effects of a validated merge instruction:
// every dependent row owned by a duplicate is re-pointed at the primary, then
// the duplicate roster rows are deleted. The primary row itself is never
// touched.
//
// Implementations must apply the whole instruction atomically or not at all;
// a half-merged roster is worse than a failed merge.
type MergeStore interface {
	ApplyMerge(ctx context.Context, instr MergeInstruction) error
}

// Reassigner re-points dependent rows from one attendee to another. The
// check-in and booth stores implement it; the in-memory merge store fans a
// merge out across them.
type Reassigner interface {
	ReassignAttendee(ctx context.Context, from, to id.AttendeeID) error
}
