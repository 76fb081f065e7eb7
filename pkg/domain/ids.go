// Package domain holds the typed identifiers and enumerations shared across
// eventdesk. Typed IDs make cross-entity assignment a compile error: an
// AttendeeID can never be passed where a PlanID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "eventdesk/pkg/domain-errors"
)

// Typed UUID identifiers. Construct via the Parse functions at trust
// boundaries; direct conversion bypasses validation and is reserved for code
// that already holds a validated UUID (stores, tests).
type (
	AttendeeID     uuid.UUID
	EventID        uuid.UUID
	BoothID        uuid.UUID
	PlanID         uuid.UUID
	CatalogEntryID uuid.UUID
	ScanID         uuid.UUID
	DeskKeyID      uuid.UUID
)

func (id AttendeeID) String() string     { return uuid.UUID(id).String() }
func (id EventID) String() string        { return uuid.UUID(id).String() }
func (id BoothID) String() string        { return uuid.UUID(id).String() }
func (id PlanID) String() string         { return uuid.UUID(id).String() }
func (id CatalogEntryID) String() string { return uuid.UUID(id).String() }
func (id ScanID) String() string         { return uuid.UUID(id).String() }
func (id DeskKeyID) String() string      { return uuid.UUID(id).String() }

// The defined types do not inherit uuid.UUID's encoding methods, so each ID
// implements encoding.TextMarshaler explicitly; without this, JSON would
// render IDs as raw byte arrays.
func (id AttendeeID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id BoothID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id PlanID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id CatalogEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ScanID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id DeskKeyID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *AttendeeID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = AttendeeID(u)
	return err
}

func (id *EventID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = EventID(u)
	return err
}

func (id *BoothID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = BoothID(u)
	return err
}

func (id *PlanID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = PlanID(u)
	return err
}

func (id *CatalogEntryID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = CatalogEntryID(u)
	return err
}

func (id *ScanID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = ScanID(u)
	return err
}

func (id *DeskKeyID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = DeskKeyID(u)
	return err
}

func (id AttendeeID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id BoothID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id PlanID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id CatalogEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ScanID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id DeskKeyID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs.
func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}

// ParseAttendeeID constructs an AttendeeID from external input.
func ParseAttendeeID(s string) (AttendeeID, error) {
	u, err := parseUUID(s, "attendee id")
	return AttendeeID(u), err
}

// ParseEventID constructs an EventID from external input.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event id")
	return EventID(u), err
}

// ParseBoothID constructs a BoothID from external input.
func ParseBoothID(s string) (BoothID, error) {
	u, err := parseUUID(s, "booth id")
	return BoothID(u), err
}

// ParsePlanID constructs a PlanID from external input.
func ParsePlanID(s string) (PlanID, error) {
	u, err := parseUUID(s, "plan id")
	return PlanID(u), err
}

// ParseCatalogEntryID constructs a CatalogEntryID from external input.
func ParseCatalogEntryID(s string) (CatalogEntryID, error) {
	u, err := parseUUID(s, "catalog entry id")
	return CatalogEntryID(u), err
}

// NewAttendeeID returns a fresh random AttendeeID.
func NewAttendeeID() AttendeeID { return AttendeeID(uuid.New()) }

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

// NewBoothID returns a fresh random BoothID.
func NewBoothID() BoothID { return BoothID(uuid.New()) }

// NewPlanID returns a fresh random PlanID.
func NewPlanID() PlanID { return PlanID(uuid.New()) }

// NewCatalogEntryID returns a fresh random CatalogEntryID.
func NewCatalogEntryID() CatalogEntryID { return CatalogEntryID(uuid.New()) }

// NewScanID returns a fresh random ScanID.
func NewScanID() ScanID { return ScanID(uuid.New()) }

// ParseDeskKeyID constructs a DeskKeyID from external input.
func ParseDeskKeyID(s string) (DeskKeyID, error) {
	u, err := parseUUID(s, "desk key id")
	return DeskKeyID(u), err
}

// NewDeskKeyID returns a fresh random DeskKeyID.
func NewDeskKeyID() DeskKeyID { return DeskKeyID(uuid.New()) }
