// Package service orchestrates booth management and occupancy reporting.
package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"eventdesk/internal/audit"
	"eventdesk/internal/booth"
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
	"eventdesk/pkg/platform/sentinel"
	"eventdesk/pkg/requestcontext"
)

// Service orchestrates booth lifecycle and assignment operations.
type Service struct {
	store   booth.Store
	logger  *slog.Logger
	auditor audit.Publisher
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithAudit attaches an audit publisher.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(store booth.Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("booth store is required")
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

// CreateBooth registers a booth for an event.
func (s *Service) CreateBooth(ctx context.Context, eventID id.EventID, label string, capacity int) (*booth.Booth, error) {
	b, err := booth.New(id.NewBoothID(), eventID, label, capacity)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateBooth(ctx, b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create booth")
	}
	return b, nil
}

// Assign links an attendee to a booth. Over-capacity assignments are
// accepted; they surface in the occupancy report.
func (s *Service) Assign(ctx context.Context, boothID id.BoothID, attendeeID id.AttendeeID) (*booth.Assignment, error) {
	b, err := s.store.GetBooth(ctx, boothID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "booth not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load booth")
	}

	a := &booth.Assignment{
		BoothID:    boothID,
		AttendeeID: attendeeID,
		AssignedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Assign(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "attendee is already assigned to this booth")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "assign attendee")
	}

	s.emit(ctx, audit.ActionBoothAssigned, b, attendeeID)
	return a, nil
}

// Unassign removes an attendee from a booth.
func (s *Service) Unassign(ctx context.Context, boothID id.BoothID, attendeeID id.AttendeeID) error {
	b, err := s.store.GetBooth(ctx, boothID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "booth not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load booth")
	}

	if err := s.store.Unassign(ctx, boothID, attendeeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "assignment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "unassign attendee")
	}

	s.emit(ctx, audit.ActionBoothUnassigned, b, attendeeID)
	return nil
}

// Occupancy fetches booths and assignments in parallel and aggregates them
// into an event-level report.
func (s *Service) Occupancy(ctx context.Context, eventID id.EventID) (*booth.Report, error) {
	var (
		booths      []booth.Booth
		assignments []booth.Assignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		booths, err = s.store.ListBooths(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.store.ListAssignments(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load occupancy data")
	}

	report := booth.Occupancy(booths, assignments)
	return &report, nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, b *booth.Booth, attendeeID id.AttendeeID) {
	event := audit.Event{
		Category:  audit.CategoryOperations,
		Action:    action,
		Timestamp: requestcontext.Now(ctx),
		Actor:     requestcontext.Actor(ctx),
		RequestID: requestcontext.RequestID(ctx),
		EventID:   b.EventID,
		Subject:   attendeeID.String(),
		Details:   map[string]string{"booth_id": b.ID.String(), "booth_label": b.Label},
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", action,
			"error", err,
		)
	}
}
