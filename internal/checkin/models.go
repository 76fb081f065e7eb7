// Package checkin records attendance scans at the event entrance. Each desk
// station authenticates with an issued key; each attendee checks in at most
// once per event.
package checkin

import (
	"strings"
	"time"

	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
)

// Scan is one check-in event: an attendee presented their badge at a desk.
//
// Invariants:
//   - at most one scan per (EventID, AttendeeID); a second attempt is a
//     conflict, not a new row
//   - scans follow their attendee through a merge: when duplicate roster
//     records are collapsed, surviving scans are re-pointed at the primary
type Scan struct {
	ID         id.ScanID     `json:"id"`
	EventID    id.EventID    `json:"event_id"`
	AttendeeID id.AttendeeID `json:"attendee_id"`
	DeskKeyID  id.DeskKeyID  `json:"desk_key_id"`
	Device     string        `json:"device,omitempty"`
	ScannedAt  time.Time     `json:"scanned_at"`
}

// DeskKey authenticates a check-in station. The plaintext key is returned
// exactly once at issuance; only the bcrypt hash is stored.
type DeskKey struct {
	ID        id.DeskKeyID `json:"id"`
	EventID   id.EventID   `json:"event_id"`
	Label     string       `json:"label"`
	KeyHash   string       `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewDeskKey validates and constructs a DeskKey.
func NewDeskKey(keyID id.DeskKeyID, eventID id.EventID, label, keyHash string, now time.Time) (*DeskKey, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "desk key label cannot be empty")
	}
	if eventID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "desk key must belong to an event")
	}
	if keyHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "desk key hash cannot be empty")
	}
	return &DeskKey{
		ID:        keyID,
		EventID:   eventID,
		Label:     label,
		KeyHash:   keyHash,
		CreatedAt: now,
	}, nil
}
