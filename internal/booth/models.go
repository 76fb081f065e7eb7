// Package booth tracks vendor booths and which roster records staff them.
package booth

import (
	"strings"
	"time"

	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
)

// Booth is a physical vendor spot on the event floor.
//
// Capacity is advisory: assignments past capacity are accepted and surfaced
// as over-capacity in the occupancy report, because floor staff resolve
// double-bookings in person, not by fighting the database.
type Booth struct {
	ID       id.BoothID `json:"id"`
	EventID  id.EventID `json:"event_id"`
	Label    string     `json:"label"`
	Capacity int        `json:"capacity"`
}

// New validates and constructs a Booth.
func New(boothID id.BoothID, eventID id.EventID, label string, capacity int) (*Booth, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "booth label cannot be empty")
	}
	if eventID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "booth must belong to an event")
	}
	if capacity < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "booth capacity must be at least 1")
	}
	return &Booth{ID: boothID, EventID: eventID, Label: label, Capacity: capacity}, nil
}

// Assignment links a roster record to a booth. Assignments are
// merge-dependent rows: when duplicate roster records are collapsed they are
// re-pointed at the surviving primary.
type Assignment struct {
	BoothID    id.BoothID    `json:"booth_id"`
	AttendeeID id.AttendeeID `json:"attendee_id"`
	AssignedAt time.Time     `json:"assigned_at"`
}

// BoothOccupancy is the per-booth slice of an occupancy report.
type BoothOccupancy struct {
	Booth        Booth           `json:"booth"`
	AttendeeIDs  []id.AttendeeID `json:"attendee_ids"`
	Occupants    int             `json:"occupants"`
	OverCapacity bool            `json:"over_capacity"`
}

// Report is an event-level occupancy summary.
type Report struct {
	Booths          []BoothOccupancy `json:"booths"`
	TotalBooths     int              `json:"total_booths"`
	TotalOccupants  int              `json:"total_occupants"`
	BoothsOverLimit int              `json:"booths_over_limit"`
}

// Occupancy aggregates assignments into a per-booth and event-level report.
// Pure function; booths keep input order, occupants keep assignment order.
// Assignments referencing a booth outside the input are ignored.
func Occupancy(booths []Booth, assignments []Assignment) Report {
	occupants := make(map[id.BoothID][]id.AttendeeID)
	for _, a := range assignments {
		occupants[a.BoothID] = append(occupants[a.BoothID], a.AttendeeID)
	}

	report := Report{TotalBooths: len(booths)}
	for _, b := range booths {
		ids := occupants[b.ID]
		entry := BoothOccupancy{
			Booth:        b,
			AttendeeIDs:  ids,
			Occupants:    len(ids),
			OverCapacity: len(ids) > b.Capacity,
		}
		report.Booths = append(report.Booths, entry)
		report.TotalOccupants += entry.Occupants
		if entry.OverCapacity {
			report.BoothsOverLimit++
		}
	}
	return report
}
