package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/attendee"
	"eventdesk/internal/audit"
	"eventdesk/internal/booth"
	"eventdesk/internal/checkin"
	"eventdesk/internal/dedupe"
	"eventdesk/internal/dedupe/service"
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
)

type fixture struct {
	svc     *service.Service
	roster  *attendee.InMemoryStore
	scans   *checkin.InMemoryStore
	booths  *booth.InMemoryStore
	auditor *audit.MemoryPublisher
	eventID id.EventID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	roster := attendee.NewInMemoryStore()
	scans := checkin.NewInMemoryStore()
	booths := booth.NewInMemoryStore()
	auditor := audit.NewMemoryPublisher()
	merges := dedupe.NewInMemoryMergeStore(roster, scans, booths)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := service.New(roster, merges, logger,
		service.WithAudit(auditor),
		service.WithScanCounts(scans),
	)
	require.NoError(t, err)

	return &fixture{
		svc:     svc,
		roster:  roster,
		scans:   scans,
		booths:  booths,
		auditor: auditor,
		eventID: id.NewEventID(),
	}
}

func (f *fixture) addAttendee(t *testing.T, name, email, org string, isVendor bool) *attendee.Attendee {
	t.Helper()
	a := &attendee.Attendee{
		ID:           id.NewAttendeeID(),
		EventID:      f.eventID,
		Name:         name,
		Email:        email,
		Organization: org,
		IsVendor:     isVendor,
	}
	require.NoError(t, f.roster.Create(context.Background(), a))
	return a
}

func (f *fixture) addScan(t *testing.T, attendeeID id.AttendeeID) {
	t.Helper()
	require.NoError(t, f.scans.Append(context.Background(), &checkin.Scan{
		ID:         id.NewScanID(),
		EventID:    f.eventID,
		AttendeeID: attendeeID,
		DeskKeyID:  id.NewDeskKeyID(),
	}))
}

func TestFindDuplicates(t *testing.T) {
	f := newFixture(t)
	a := f.addAttendee(t, "Jo Smith", "jo@x.com", "", false)
	b := f.addAttendee(t, "Joanne Smith", "JO@X.COM", "", false)
	f.addAttendee(t, "Sam Doe", "sam@y.com", "", false)
	f.addScan(t, a.ID)

	reviews, err := f.svc.FindDuplicates(context.Background(), f.eventID, attendee.ScopeAttendees)
	require.NoError(t, err)

	require.Len(t, reviews, 1)
	assert.Equal(t, dedupe.GroupKindEmail, reviews[0].Kind)
	require.Len(t, reviews[0].Members, 2)
	assert.Equal(t, a.ID, reviews[0].Members[0].Attendee.ID)
	assert.Equal(t, 1, reviews[0].Members[0].ScanCount)
	assert.Equal(t, b.ID, reviews[0].Members[1].Attendee.ID)
	assert.Equal(t, 0, reviews[0].Members[1].ScanCount)
}

func TestFindDuplicatesRespectsPartition(t *testing.T) {
	f := newFixture(t)
	// Same email, opposite partitions: never reviewed together.
	f.addAttendee(t, "Jo", "jo@x.com", "", false)
	f.addAttendee(t, "Jo the Vendor", "jo@x.com", "", true)

	reviews, err := f.svc.FindDuplicates(context.Background(), f.eventID, attendee.ScopeAttendees)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	reviews, err = f.svc.FindDuplicates(context.Background(), f.eventID, attendee.ScopeVendors)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestMixedScopeRejected(t *testing.T) {
	f := newFixture(t)
	// Same email across partitions: the mixed roster would group these two,
	// which is exactly why it must never be scanned.
	regular := f.addAttendee(t, "Jo", "jo@x.com", "", false)
	vendor := f.addAttendee(t, "Jo the Vendor", "jo@x.com", "", true)

	_, err := f.svc.FindDuplicates(context.Background(), f.eventID, attendee.ScopeAll)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = f.svc.Merge(context.Background(), service.MergeInput{
		EventID:      f.eventID,
		Scope:        attendee.ScopeAll,
		PrimaryID:    regular.ID,
		DuplicateIDs: []id.AttendeeID{vendor.ID},
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	// The would-be cross-partition duplicate is untouched.
	_, err = f.roster.GetByID(context.Background(), vendor.ID)
	assert.NoError(t, err)
}

func TestMerge(t *testing.T) {
	f := newFixture(t)
	primary := f.addAttendee(t, "Jo Smith", "jo@x.com", "", false)
	dup := f.addAttendee(t, "Joanne Smith", "jo@x.com", "", false)
	f.addScan(t, dup.ID)

	b := booth.Booth{ID: id.NewBoothID(), EventID: f.eventID, Label: "A", Capacity: 2}
	require.NoError(t, f.booths.CreateBooth(context.Background(), &b))
	require.NoError(t, f.booths.Assign(context.Background(), &booth.Assignment{
		BoothID: b.ID, AttendeeID: dup.ID,
	}))

	result, err := f.svc.Merge(context.Background(), service.MergeInput{
		EventID:      f.eventID,
		Scope:        attendee.ScopeAttendees,
		PrimaryID:    primary.ID,
		DuplicateIDs: []id.AttendeeID{dup.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, primary.ID, result.PrimaryID)
	assert.Equal(t, []id.AttendeeID{dup.ID}, result.MergedIDs)
	assert.Equal(t, 1, result.RecordsMerged)

	// Duplicate is gone, primary survives untouched.
	_, err = f.roster.GetByID(context.Background(), dup.ID)
	assert.Error(t, err)
	kept, err := f.roster.GetByID(context.Background(), primary.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jo Smith", kept.Name)

	// Dependent rows follow the primary.
	scans, err := f.scans.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, primary.ID, scans[0].AttendeeID)

	assignments, err := f.booths.ListAssignments(context.Background(), f.eventID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, primary.ID, assignments[0].AttendeeID)

	events := f.auditor.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionAttendeesMerged, events[0].Action)
	assert.Equal(t, primary.ID.String(), events[0].Subject)
}

func TestMergeSubset(t *testing.T) {
	f := newFixture(t)
	primary := f.addAttendee(t, "Jo", "jo@x.com", "", false)
	confirmed := f.addAttendee(t, "Jo S", "jo@x.com", "", false)
	unconfirmed := f.addAttendee(t, "Jo Smith", "jo@x.com", "", false)

	result, err := f.svc.Merge(context.Background(), service.MergeInput{
		EventID:      f.eventID,
		Scope:        attendee.ScopeAttendees,
		PrimaryID:    primary.ID,
		DuplicateIDs: []id.AttendeeID{confirmed.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []id.AttendeeID{confirmed.ID}, result.MergedIDs)

	// The unconfirmed group member survives.
	_, err = f.roster.GetByID(context.Background(), unconfirmed.ID)
	assert.NoError(t, err)
}

func TestMergeValidation(t *testing.T) {
	f := newFixture(t)
	primary := f.addAttendee(t, "Jo", "jo@x.com", "", false)
	dup := f.addAttendee(t, "Jo S", "jo@x.com", "", false)
	unrelated := f.addAttendee(t, "Sam", "sam@y.com", "", false)

	t.Run("no duplicates submitted", func(t *testing.T) {
		_, err := f.svc.Merge(context.Background(), service.MergeInput{
			EventID:   f.eventID,
			Scope:     attendee.ScopeAttendees,
			PrimaryID: primary.ID,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("records not detected as duplicates of each other", func(t *testing.T) {
		_, err := f.svc.Merge(context.Background(), service.MergeInput{
			EventID:      f.eventID,
			Scope:        attendee.ScopeAttendees,
			PrimaryID:    primary.ID,
			DuplicateIDs: []id.AttendeeID{unrelated.ID},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("submitting only the primary as its own duplicate", func(t *testing.T) {
		_, err := f.svc.Merge(context.Background(), service.MergeInput{
			EventID:      f.eventID,
			Scope:        attendee.ScopeAttendees,
			PrimaryID:    primary.ID,
			DuplicateIDs: []id.AttendeeID{primary.ID},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("stale submission after roster change", func(t *testing.T) {
		require.NoError(t, f.roster.Delete(context.Background(), dup.ID))
		_, err := f.svc.Merge(context.Background(), service.MergeInput{
			EventID:      f.eventID,
			Scope:        attendee.ScopeAttendees,
			PrimaryID:    primary.ID,
			DuplicateIDs: []id.AttendeeID{dup.ID},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
