// Package service orchestrates duplicate review and merge execution.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eventdesk/internal/attendee"
	"eventdesk/internal/audit"
	"eventdesk/internal/dedupe"
	dedupemetrics "eventdesk/internal/dedupe/metrics"
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
	"eventdesk/pkg/platform/sentinel"
	"eventdesk/pkg/requestcontext"
)

// ScanCounter supplies check-in counts for the review payload, so reviewers
// can see which duplicate actually attended before picking a survivor.
type ScanCounter interface {
	CountByAttendee(ctx context.Context, attendeeIDs []id.AttendeeID) (map[id.AttendeeID]int, error)
}

// Service runs detection passes over roster partitions and executes reviewed
// merges.
type Service struct {
	roster  attendee.Store
	merges  dedupe.MergeStore
	scans   ScanCounter
	logger  *slog.Logger
	auditor audit.Publisher
	metrics *dedupemetrics.Metrics
	tracer  trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithAudit attaches an audit publisher.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithMetrics attaches dedupe metrics.
func WithMetrics(m *dedupemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithScanCounts enriches review payloads with check-in counts.
func WithScanCounts(c ScanCounter) Option {
	return func(s *Service) { s.scans = c }
}

func New(roster attendee.Store, merges dedupe.MergeStore, logger *slog.Logger, opts ...Option) (*Service, error) {
	if roster == nil {
		return nil, errors.New("attendee store is required")
	}
	if merges == nil {
		return nil, errors.New("merge store is required")
	}
	s := &Service{
		roster:  roster,
		merges:  merges,
		logger:  logger,
		auditor: audit.NopPublisher{},
		tracer:  otel.Tracer("eventdesk/dedupe"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ReviewMember is one group member expanded for the review UI.
type ReviewMember struct {
	Attendee  attendee.Attendee `json:"attendee"`
	ScanCount int               `json:"scan_count"`
}

// Review is one duplicate group with its members expanded.
type Review struct {
	Kind    dedupe.GroupKind `json:"kind"`
	Key     string           `json:"key"`
	Members []ReviewMember   `json:"members"`
}

// FindDuplicates runs a detection pass over one roster partition and expands
// the resulting groups for review. Detection never runs on the mixed roster;
// vendors and attendees are reviewed separately.
func (s *Service) FindDuplicates(ctx context.Context, eventID id.EventID, scope attendee.Scope) ([]Review, error) {
	ctx, span := s.tracer.Start(ctx, "dedupe.FindDuplicates",
		trace.WithAttributes(
			attribute.String("event_id", eventID.String()),
			attribute.String("scope", string(scope)),
		))
	defer span.End()

	if scope == attendee.ScopeAll {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "duplicate detection runs on one partition at a time; use scope attendees or vendors")
	}

	start := requestcontext.Now(ctx)

	records, err := s.roster.ListByEvent(ctx, eventID, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load roster")
	}

	groups := dedupe.Detect(records)
	reviews, err := s.expand(ctx, records, groups)
	if err != nil {
		return nil, err
	}

	kinds := make(map[dedupe.GroupKind]int)
	for _, g := range groups {
		kinds[g.Kind]++
	}
	for kind, n := range kinds {
		s.metrics.IncrementGroups(string(kind), n)
	}
	s.metrics.ObserveDetectLatency(requestcontext.Now(ctx).Sub(start))
	span.SetAttributes(attribute.Int("groups", len(groups)))

	return reviews, nil
}

// expand joins groups back onto roster records and check-in counts.
func (s *Service) expand(ctx context.Context, records []attendee.Attendee, groups []dedupe.Group) ([]Review, error) {
	byID := make(map[id.AttendeeID]attendee.Attendee, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	var counts map[id.AttendeeID]int
	if s.scans != nil && len(groups) > 0 {
		var grouped []id.AttendeeID
		seen := make(map[id.AttendeeID]bool)
		for _, g := range groups {
			for _, m := range g.MemberIDs {
				if !seen[m] {
					seen[m] = true
					grouped = append(grouped, m)
				}
			}
		}
		var err error
		counts, err = s.scans.CountByAttendee(ctx, grouped)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load scan counts")
		}
	}

	reviews := make([]Review, 0, len(groups))
	for _, g := range groups {
		review := Review{Kind: g.Kind, Key: g.Key}
		for _, m := range g.MemberIDs {
			review.Members = append(review.Members, ReviewMember{
				Attendee:  byID[m],
				ScanCount: counts[m],
			})
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// MergeInput carries a reviewed merge decision.
type MergeInput struct {
	EventID      id.EventID
	Scope        attendee.Scope
	PrimaryID    id.AttendeeID
	DuplicateIDs []id.AttendeeID
}

// MergeResult reports what a merge removed.
type MergeResult struct {
	PrimaryID     id.AttendeeID   `json:"primary_id"`
	MergedIDs     []id.AttendeeID `json:"merged_ids"`
	RecordsMerged int             `json:"records_merged"`
}

// Merge executes a reviewed merge. The submitted records are re-validated
// against a fresh detection pass: the roster may have changed since the
// reviewer loaded the page, and merging records that are no longer detected
// as duplicates would silently destroy data.
func (s *Service) Merge(ctx context.Context, in MergeInput) (*MergeResult, error) {
	ctx, span := s.tracer.Start(ctx, "dedupe.Merge",
		trace.WithAttributes(
			attribute.String("event_id", in.EventID.String()),
			attribute.String("primary_id", in.PrimaryID.String()),
			attribute.Int("duplicates", len(in.DuplicateIDs)),
		))
	defer span.End()

	if in.Scope == attendee.ScopeAll {
		s.metrics.IncrementMergeOutcome("rejected")
		return nil, dErrors.New(dErrors.CodeInvalidInput, "merges run on one partition at a time; use scope attendees or vendors")
	}
	if len(in.DuplicateIDs) == 0 {
		s.metrics.IncrementMergeOutcome("rejected")
		return nil, dErrors.New(dErrors.CodeInvalidInput, "no duplicates submitted")
	}

	records, err := s.roster.ListByEvent(ctx, in.EventID, in.Scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load roster")
	}

	group, ok := matchGroup(dedupe.Detect(records), in.PrimaryID, in.DuplicateIDs)
	if !ok {
		s.metrics.IncrementMergeOutcome("rejected")
		return nil, dErrors.New(dErrors.CodeInvalidInput, "submitted records are not currently detected as duplicates of each other")
	}

	instr, err := dedupe.BuildMergeInstruction(group, in.PrimaryID)
	if err != nil {
		s.metrics.IncrementMergeOutcome("rejected")
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			s.logger.ErrorContext(ctx, "degenerate duplicate group reached merge",
				"event_id", in.EventID,
				"primary_id", in.PrimaryID,
				"group_key", group.Key,
			)
		}
		return nil, err
	}
	// Merge only what the reviewer confirmed, not everything detection found.
	// Filtering through the instruction's duplicate set also strips the
	// primary should it appear in the submission.
	submitted := make(map[id.AttendeeID]bool, len(in.DuplicateIDs))
	for _, dup := range in.DuplicateIDs {
		submitted[dup] = true
	}
	var confirmed []id.AttendeeID
	for _, dup := range instr.DuplicateIDs {
		if submitted[dup] {
			confirmed = append(confirmed, dup)
		}
	}
	if len(confirmed) == 0 {
		s.metrics.IncrementMergeOutcome("rejected")
		return nil, dErrors.New(dErrors.CodeInvalidInput, "no mergeable duplicates submitted")
	}
	instr.DuplicateIDs = confirmed

	if err := s.merges.ApplyMerge(ctx, instr); err != nil {
		s.metrics.IncrementMergeOutcome("failed")
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeConflict, "a submitted record no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "apply merge")
	}

	s.metrics.IncrementMergeOutcome("merged")
	s.metrics.AddRecordsMerged(len(instr.DuplicateIDs))
	s.emit(ctx, in.EventID, instr)
	s.logger.InfoContext(ctx, "attendees merged",
		"event_id", in.EventID,
		"primary_id", instr.PrimaryID,
		"merged", len(instr.DuplicateIDs),
	)

	return &MergeResult{
		PrimaryID:     instr.PrimaryID,
		MergedIDs:     instr.DuplicateIDs,
		RecordsMerged: len(instr.DuplicateIDs),
	}, nil
}

// matchGroup finds a detected group containing the primary and every
// submitted duplicate.
func matchGroup(groups []dedupe.Group, primaryID id.AttendeeID, duplicateIDs []id.AttendeeID) (dedupe.Group, bool) {
	for _, g := range groups {
		if !g.Contains(primaryID) {
			continue
		}
		all := true
		for _, dup := range duplicateIDs {
			if !g.Contains(dup) {
				all = false
				break
			}
		}
		if all {
			return g, true
		}
	}
	return dedupe.Group{}, false
}

func (s *Service) emit(ctx context.Context, eventID id.EventID, instr dedupe.MergeInstruction) {
	merged := make([]string, len(instr.DuplicateIDs))
	for i, dup := range instr.DuplicateIDs {
		merged[i] = dup.String()
	}
	event := audit.Event{
		Category:  audit.CategoryRoster,
		Action:    audit.ActionAttendeesMerged,
		Timestamp: requestcontext.Now(ctx),
		Actor:     requestcontext.Actor(ctx),
		RequestID: requestcontext.RequestID(ctx),
		EventID:   eventID,
		Subject:   instr.PrimaryID.String(),
		Details: map[string]string{
			"merged_count": strconv.Itoa(len(merged)),
		},
	}
	for i, dup := range merged {
		event.Details["merged_"+strconv.Itoa(i)] = dup
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", audit.ActionAttendeesMerged,
			"error", err,
		)
	}
}
