package attendee

import (
	"context"

	id "eventdesk/pkg/domain"
)

// Store abstracts roster persistence. Implementations return sentinel errors
// (pkg/platform/sentinel) for infrastructure facts; services translate them.
type Store interface {
	Create(ctx context.Context, a *Attendee) error
	GetByID(ctx context.Context, attendeeID id.AttendeeID) (*Attendee, error)
	// ListByEvent returns the event roster filtered by scope, in creation
	// order. Detection passes rely on the stable ordering.
	ListByEvent(ctx context.Context, eventID id.EventID, scope Scope) ([]Attendee, error)
	Update(ctx context.Context, a *Attendee) error
	Delete(ctx context.Context, attendeeID id.AttendeeID) error
}
