// Package attendee holds the event roster: people records partitioned into
// attendees and vendors by a boolean classification.
package attendee

import (
	"strings"
	"time"

	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
)

// Attendee is a person entry in an event's roster.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - EventID is set
//   - Email, Organization, Phone, Notes are optional free text
//   - IsVendor partitions the roster: a record is shown on exactly one of the
//     attendee and vendor views, never both
//
// Records are created by registration or import; they are destroyed only as a
// consequence of a merge, where the losing duplicates are deleted after their
// dependent rows (check-in scans, booth assignments) have been re-pointed to
// the surviving primary.
type Attendee struct {
	ID           id.AttendeeID `json:"id"`
	EventID      id.EventID    `json:"event_id"`
	Name         string        `json:"name"`
	Email        string        `json:"email,omitempty"`
	Organization string        `json:"organization,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	IsVendor     bool          `json:"is_vendor"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// New validates and constructs an Attendee.
func New(attendeeID id.AttendeeID, eventID id.EventID, name string, isVendor bool, now time.Time) (*Attendee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "attendee name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "attendee name must be 128 characters or less")
	}
	if eventID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "attendee must belong to an event")
	}
	return &Attendee{
		ID:        attendeeID,
		EventID:   eventID,
		Name:      name,
		IsVendor:  isVendor,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Scope selects a roster partition. Duplicate detection always runs on a
// single partition, never the mixed set.
type Scope string

const (
	ScopeAttendees Scope = "attendees"
	ScopeVendors   Scope = "vendors"
	ScopeAll       Scope = "all"
)

var validScopes = map[Scope]bool{
	ScopeAttendees: true,
	ScopeVendors:   true,
	ScopeAll:       true,
}

// ParseScope constructs a Scope from external input. Empty input defaults to
// ScopeAttendees.
func ParseScope(s string) (Scope, error) {
	if s == "" {
		return ScopeAttendees, nil
	}
	sc := Scope(s)
	if !validScopes[sc] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown scope %q", s)
	}
	return sc, nil
}

// Matches reports whether a record falls inside the scope partition.
func (s Scope) Matches(a *Attendee) bool {
	switch s {
	case ScopeVendors:
		return a.IsVendor
	case ScopeAttendees:
		return !a.IsVendor
	default:
		return true
	}
}
