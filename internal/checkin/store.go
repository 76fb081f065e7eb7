package checkin

import (
	"context"

	id "eventdesk/pkg/domain"
)

// Store abstracts scan persistence. Implementations return sentinel errors
// (pkg/platform/sentinel) for infrastructure facts; services translate them.
type Store interface {
	// Append records a scan. Returns sentinel.ErrConflict when the attendee
	// has already checked in to the event.
	Append(ctx context.Context, scan *Scan) error
	// ListByEvent returns an event's scans in scan order.
	ListByEvent(ctx context.Context, eventID id.EventID) ([]Scan, error)
	// CountByAttendee returns scan counts for the given attendees. Attendees
	// with no scans are absent from the result.
	CountByAttendee(ctx context.Context, attendeeIDs []id.AttendeeID) (map[id.AttendeeID]int, error)
	// ReassignAttendee re-points scans from one attendee to another. A scan
	// that would collide with an existing scan of the target is dropped; the
	// target's own row wins.
	ReassignAttendee(ctx context.Context, from, to id.AttendeeID) error
}

// DeskKeyStore abstracts desk key persistence.
type DeskKeyStore interface {
	CreateDeskKey(ctx context.Context, key *DeskKey) error
	// GetDeskKey returns the key record, hash included, for verification.
	GetDeskKey(ctx context.Context, keyID id.DeskKeyID) (*DeskKey, error)
	ListDeskKeys(ctx context.Context, eventID id.EventID) ([]DeskKey, error)
}
