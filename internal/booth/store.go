package booth

import (
	"context"

	id "eventdesk/pkg/domain"
)

// Store abstracts booth and assignment persistence. Implementations return
// sentinel errors (pkg/platform/sentinel); services translate them.
type Store interface {
	CreateBooth(ctx context.Context, b *Booth) error
	GetBooth(ctx context.Context, boothID id.BoothID) (*Booth, error)
	ListBooths(ctx context.Context, eventID id.EventID) ([]Booth, error)
	// Assign links an attendee to a booth. Returns sentinel.ErrConflict when
	// the pair already exists.
	Assign(ctx context.Context, a *Assignment) error
	// Unassign removes the pair. Returns sentinel.ErrNotFound when it does
	// not exist.
	Unassign(ctx context.Context, boothID id.BoothID, attendeeID id.AttendeeID) error
	// ListAssignments returns all assignments for an event's booths in
	// assignment order.
	ListAssignments(ctx context.Context, eventID id.EventID) ([]Assignment, error)
	// ReassignAttendee re-points assignments from one attendee to another.
	// An assignment that would collide with the target's existing row on the
	// same booth is dropped.
	ReassignAttendee(ctx context.Context, from, to id.AttendeeID) error
}
