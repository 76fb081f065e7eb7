//go:build integration

package dedupe_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventdesk/internal/attendee"
	"eventdesk/internal/booth"
	"eventdesk/internal/checkin"
	"eventdesk/internal/dedupe"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
	"eventdesk/pkg/testutil/containers"
)

type PostgresMergeStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	attendees *attendee.PostgresStore
	scans     *checkin.PostgresStore
	booths    *booth.PostgresStore
	store     *dedupe.PostgresMergeStore
}

func TestPostgresMergeStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresMergeStoreSuite))
}

func (s *PostgresMergeStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.attendees = attendee.NewPostgresStore(s.postgres.DB)
	s.scans = checkin.NewPostgresStore(s.postgres.DB)
	s.booths = booth.NewPostgresStore(s.postgres.DB)
	s.store = dedupe.NewPostgresMergeStore(s.postgres.DB, s.scans, s.booths)
}

func (s *PostgresMergeStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx,
		"booth_assignments", "checkin_scans", "booths", "attendees")
	s.Require().NoError(err)
}

func (s *PostgresMergeStoreSuite) createAttendee(eventID id.EventID, name string) *attendee.Attendee {
	a, err := attendee.New(id.NewAttendeeID(), eventID, name, false, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.attendees.Create(context.Background(), a))
	return a
}

func (s *PostgresMergeStoreSuite) createScan(eventID id.EventID, attendeeID id.AttendeeID) *checkin.Scan {
	scan := &checkin.Scan{
		ID:         id.NewScanID(),
		EventID:    eventID,
		AttendeeID: attendeeID,
		DeskKeyID:  id.NewDeskKeyID(),
		Device:     "Safari/iOS",
		ScannedAt:  time.Now(),
	}
	s.Require().NoError(s.scans.Append(context.Background(), scan))
	return scan
}

func (s *PostgresMergeStoreSuite) createBooth(eventID id.EventID, label string) *booth.Booth {
	b, err := booth.New(id.NewBoothID(), eventID, label, 4)
	s.Require().NoError(err)
	s.Require().NoError(s.booths.CreateBooth(context.Background(), b))
	return b
}

func (s *PostgresMergeStoreSuite) TestApplyMergeRepointsDependents() {
	ctx := context.Background()
	eventID := id.NewEventID()

	primary := s.createAttendee(eventID, "Dana Reyes")
	dup := s.createAttendee(eventID, "Dana Reyes")

	dupScan := s.createScan(eventID, dup.ID)
	b := s.createBooth(eventID, "Booth 12")
	s.Require().NoError(s.booths.Assign(ctx, &booth.Assignment{
		BoothID: b.ID, AttendeeID: dup.ID, AssignedAt: time.Now(),
	}))

	err := s.store.ApplyMerge(ctx, dedupe.MergeInstruction{
		PrimaryID:    primary.ID,
		DuplicateIDs: []id.AttendeeID{dup.ID},
	})
	s.Require().NoError(err)

	// The duplicate's scan now belongs to the primary.
	scans, err := s.scans.ListByEvent(ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(scans, 1)
	s.Equal(dupScan.ID, scans[0].ID)
	s.Equal(primary.ID, scans[0].AttendeeID)

	// So does the booth assignment.
	assignments, err := s.booths.ListAssignments(ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(assignments, 1)
	s.Equal(primary.ID, assignments[0].AttendeeID)

	// The duplicate row is gone, the primary untouched.
	_, err = s.attendees.GetByID(ctx, dup.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	got, err := s.attendees.GetByID(ctx, primary.ID)
	s.Require().NoError(err)
	s.Equal(primary.Name, got.Name)
}

func (s *PostgresMergeStoreSuite) TestApplyMergeCollisionKeepsTargetRow() {
	ctx := context.Background()
	eventID := id.NewEventID()

	primary := s.createAttendee(eventID, "Sam Okafor")
	dup := s.createAttendee(eventID, "Sam Okafor")

	primaryScan := s.createScan(eventID, primary.ID)
	s.createScan(eventID, dup.ID)

	b := s.createBooth(eventID, "Booth 3")
	s.Require().NoError(s.booths.Assign(ctx, &booth.Assignment{
		BoothID: b.ID, AttendeeID: primary.ID, AssignedAt: time.Now(),
	}))
	s.Require().NoError(s.booths.Assign(ctx, &booth.Assignment{
		BoothID: b.ID, AttendeeID: dup.ID, AssignedAt: time.Now(),
	}))

	err := s.store.ApplyMerge(ctx, dedupe.MergeInstruction{
		PrimaryID:    primary.ID,
		DuplicateIDs: []id.AttendeeID{dup.ID},
	})
	s.Require().NoError(err)

	// Both records had checked in: the primary's scan survives, the
	// duplicate's colliding scan is dropped.
	scans, err := s.scans.ListByEvent(ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(scans, 1)
	s.Equal(primaryScan.ID, scans[0].ID)
	s.Equal(primary.ID, scans[0].AttendeeID)

	assignments, err := s.booths.ListAssignments(ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(assignments, 1)
	s.Equal(primary.ID, assignments[0].AttendeeID)
}

func (s *PostgresMergeStoreSuite) TestApplyMergeMissingDuplicateRollsBack() {
	ctx := context.Background()
	eventID := id.NewEventID()

	primary := s.createAttendee(eventID, "Lin Ma")
	dup := s.createAttendee(eventID, "Lin Ma")
	s.createScan(eventID, dup.ID)

	err := s.store.ApplyMerge(ctx, dedupe.MergeInstruction{
		PrimaryID:    primary.ID,
		DuplicateIDs: []id.AttendeeID{dup.ID, id.NewAttendeeID()},
	})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Nothing changed: the duplicate and its scan are intact.
	_, err = s.attendees.GetByID(ctx, dup.ID)
	s.Require().NoError(err)
	scans, err := s.scans.ListByEvent(ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(scans, 1)
	s.Equal(dup.ID, scans[0].AttendeeID)
}
