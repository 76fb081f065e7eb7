// Package service orchestrates roster lifecycle operations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"eventdesk/internal/attendee"
	attendeemetrics "eventdesk/internal/attendee/metrics"
	"eventdesk/internal/audit"
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
	"eventdesk/pkg/platform/sentinel"
	"eventdesk/pkg/requestcontext"
)

// Service orchestrates roster management. It owns no business rules about
// duplicates or merges; those live in internal/dedupe.
type Service struct {
	store   attendee.Store
	logger  *slog.Logger
	auditor audit.Publisher
	metrics *attendeemetrics.Metrics
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithAudit attaches an audit publisher.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithMetrics attaches roster metrics.
func WithMetrics(m *attendeemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store attendee.Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("attendee store is required")
	}
	s := &Service{
		store:   store,
		logger:  logger,
		auditor: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateInput carries the fields accepted when registering a roster record.
type CreateInput struct {
	EventID      id.EventID
	Name         string
	Email        string
	Organization string
	Phone        string
	Notes        string
	IsVendor     bool
}

// Create registers a new roster record.
func (s *Service) Create(ctx context.Context, in CreateInput) (*attendee.Attendee, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "attendee name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "attendee name must be 128 characters or less")
	}

	a, err := attendee.New(id.NewAttendeeID(), in.EventID, name, in.IsVendor, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	a.Email = strings.TrimSpace(in.Email)
	a.Organization = strings.TrimSpace(in.Organization)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Notes = in.Notes

	if err := s.store.Create(ctx, a); err != nil {
		return nil, wrapStoreErr(err, "create attendee")
	}

	s.metrics.IncrementCreated(a.IsVendor)
	s.emit(ctx, audit.ActionAttendeeCreated, a)
	return a, nil
}

// Get fetches a single roster record.
func (s *Service) Get(ctx context.Context, attendeeID id.AttendeeID) (*attendee.Attendee, error) {
	a, err := s.store.GetByID(ctx, attendeeID)
	if err != nil {
		return nil, wrapStoreErr(err, "get attendee")
	}
	return a, nil
}

// ListRoster returns an event's roster restricted to one partition. Handlers
// default the scope to attendees; the vendor page passes ScopeVendors.
func (s *Service) ListRoster(ctx context.Context, eventID id.EventID, scope attendee.Scope) ([]attendee.Attendee, error) {
	records, err := s.store.ListByEvent(ctx, eventID, scope)
	if err != nil {
		return nil, wrapStoreErr(err, "list roster")
	}
	return records, nil
}

// UpdateInput carries the editable fields of a roster record.
type UpdateInput struct {
	Name         string
	Email        string
	Organization string
	Phone        string
	Notes        string
	IsVendor     bool
}

// Update replaces the editable fields of a record.
func (s *Service) Update(ctx context.Context, attendeeID id.AttendeeID, in UpdateInput) (*attendee.Attendee, error) {
	a, err := s.store.GetByID(ctx, attendeeID)
	if err != nil {
		return nil, wrapStoreErr(err, "load attendee")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "attendee name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "attendee name must be 128 characters or less")
	}

	a.Name = name
	a.Email = strings.TrimSpace(in.Email)
	a.Organization = strings.TrimSpace(in.Organization)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Notes = in.Notes
	a.IsVendor = in.IsVendor
	a.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, a); err != nil {
		return nil, wrapStoreErr(err, "update attendee")
	}

	s.emit(ctx, audit.ActionAttendeeUpdated, a)
	return a, nil
}

// Delete removes a record outright (not via merge).
func (s *Service) Delete(ctx context.Context, attendeeID id.AttendeeID) error {
	a, err := s.store.GetByID(ctx, attendeeID)
	if err != nil {
		return wrapStoreErr(err, "load attendee")
	}
	if err := s.store.Delete(ctx, attendeeID); err != nil {
		return wrapStoreErr(err, "delete attendee")
	}
	s.metrics.IncrementDeleted("admin")
	s.emit(ctx, audit.ActionAttendeeDeleted, a)
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, a *attendee.Attendee) {
	event := audit.Event{
		Category:  audit.CategoryRoster,
		Action:    action,
		Timestamp: requestcontext.Now(ctx),
		Actor:     requestcontext.Actor(ctx),
		RequestID: requestcontext.RequestID(ctx),
		EventID:   a.EventID,
		Subject:   a.ID.String(),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", action,
			"error", err,
		)
	}
}

func wrapStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "attendee not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "attendee already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
