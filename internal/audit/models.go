// Package audit captures structured audit events for admin actions. Events
// are emitted from services and fanned out to a sink (in-memory store for
// tests and local runs, Kafka in deployments).
package audit

import (
	"time"

	id "eventdesk/pkg/domain"
)

// Category classifies audit events by their primary purpose, enabling
// different retention policies and routing downstream.
type Category string

const (
	// CategoryRoster covers destructive or identity-changing roster actions.
	// Merges delete records, so these are kept with long retention.
	CategoryRoster Category = "roster"

	// CategoryEntitlement covers plan feature changes, which alter what every
	// admin of the plan's events can see and do.
	CategoryEntitlement Category = "entitlement"

	// CategoryOperations covers routine actions useful for debugging:
	// check-ins, booth assignments.
	CategoryOperations Category = "operations"
)

// Action names an audited admin action.
type Action string

const (
	ActionAttendeeCreated     Action = "attendee_created"
	ActionAttendeeUpdated     Action = "attendee_updated"
	ActionAttendeeDeleted     Action = "attendee_deleted"
	ActionAttendeesMerged     Action = "attendees_merged"
	ActionPlanFeaturesChanged Action = "plan_features_changed"
	ActionCheckinRecorded     Action = "checkin_recorded"
	ActionBoothAssigned       Action = "booth_assigned"
	ActionBoothUnassigned     Action = "booth_unassigned"
)

// Event is emitted from domain logic to capture a key action. It is
// transport-agnostic so sinks can fan out freely.
type Event struct {
	Category  Category          `json:"category"`
	Action    Action            `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     string            `json:"actor,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	EventID   id.EventID        `json:"event_id,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}
