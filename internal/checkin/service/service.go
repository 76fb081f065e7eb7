// Package service orchestrates check-in operations: desk key issuance and
// scan recording.
package service

import (
	"context"
	"errors"
	"log/slog"

	"eventdesk/internal/audit"
	"eventdesk/internal/checkin"
	checkinmetrics "eventdesk/internal/checkin/metrics"
	"eventdesk/internal/platform/secrets"
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
	"eventdesk/pkg/platform/sentinel"
	"eventdesk/pkg/requestcontext"
)

// Service orchestrates desk authentication and scan recording.
type Service struct {
	scans   checkin.Store
	keys    checkin.DeskKeyStore
	logger  *slog.Logger
	auditor audit.Publisher
	metrics *checkinmetrics.Metrics
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithAudit attaches an audit publisher.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithMetrics attaches check-in metrics.
func WithMetrics(m *checkinmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(scans checkin.Store, keys checkin.DeskKeyStore, logger *slog.Logger, opts ...Option) (*Service, error) {
	if scans == nil {
		return nil, errors.New("scan store is required")
	}
	if keys == nil {
		return nil, errors.New("desk key store is required")
	}
	s := &Service{
		scans:   scans,
		keys:    keys,
		logger:  logger,
		auditor: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IssueDeskKey registers a check-in station and returns its key. The
// plaintext key appears only in this response; afterwards only the hash
// exists.
func (s *Service) IssueDeskKey(ctx context.Context, eventID id.EventID, label string) (*checkin.DeskKey, string, error) {
	plaintext, err := secrets.Generate()
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "generate desk key")
	}
	hash, err := secrets.Hash(plaintext)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "hash desk key")
	}

	key, err := checkin.NewDeskKey(id.NewDeskKeyID(), eventID, label, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, "", err
	}
	if err := s.keys.CreateDeskKey(ctx, key); err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "store desk key")
	}

	s.metrics.IncrementDeskKeyIssued()
	s.logger.InfoContext(ctx, "desk key issued",
		"event_id", eventID,
		"desk_key_id", key.ID,
		"label", key.Label,
	)
	return key, plaintext, nil
}

// ListDeskKeys returns an event's registered desks, hashes omitted from the
// JSON representation.
func (s *Service) ListDeskKeys(ctx context.Context, eventID id.EventID) ([]checkin.DeskKey, error) {
	keys, err := s.keys.ListDeskKeys(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list desk keys")
	}
	return keys, nil
}

// RecordInput carries a scan submission from a desk station.
type RecordInput struct {
	EventID    id.EventID
	AttendeeID id.AttendeeID
	DeskKeyID  id.DeskKeyID
	DeskKey    string
}

// Record verifies the desk's key and appends a scan. A second scan for the
// same attendee and event is rejected with a conflict; the desk shows the
// original check-in instead of recording a duplicate.
func (s *Service) Record(ctx context.Context, in RecordInput) (*checkin.Scan, error) {
	key, err := s.keys.GetDeskKey(ctx, in.DeskKeyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown desk key")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load desk key")
	}
	if key.EventID != in.EventID || !secrets.Verify(in.DeskKey, key.KeyHash) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "desk key verification failed")
	}

	scan := &checkin.Scan{
		ID:         id.NewScanID(),
		EventID:    in.EventID,
		AttendeeID: in.AttendeeID,
		DeskKeyID:  key.ID,
		Device:     requestcontext.Device(ctx),
		ScannedAt:  requestcontext.Now(ctx),
	}
	if err := s.scans.Append(ctx, scan); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementScan("duplicate")
			return nil, dErrors.New(dErrors.CodeConflict, "attendee has already checked in")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "record scan")
	}

	s.metrics.IncrementScan("recorded")
	s.emit(ctx, scan)
	return scan, nil
}

// ListScans returns an event's scans in scan order.
func (s *Service) ListScans(ctx context.Context, eventID id.EventID) ([]checkin.Scan, error) {
	scans, err := s.scans.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list scans")
	}
	return scans, nil
}

func (s *Service) emit(ctx context.Context, scan *checkin.Scan) {
	event := audit.Event{
		Category:  audit.CategoryOperations,
		Action:    audit.ActionCheckinRecorded,
		Timestamp: scan.ScannedAt,
		Actor:     requestcontext.Actor(ctx),
		RequestID: requestcontext.RequestID(ctx),
		EventID:   scan.EventID,
		Subject:   scan.AttendeeID.String(),
		Details: map[string]string{
			"desk_key_id": scan.DeskKeyID.String(),
			"device":      scan.Device,
		},
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", audit.ActionCheckinRecorded,
			"error", err,
		)
	}
}
