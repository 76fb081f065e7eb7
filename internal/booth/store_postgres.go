package booth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

// PostgresStore persists booths and assignments in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE booths (
//	    id       UUID PRIMARY KEY,
//	    event_id UUID NOT NULL,
//	    label    TEXT NOT NULL,
//	    capacity INTEGER NOT NULL,
//	    seq      BIGSERIAL
//	);
//
//	CREATE TABLE booth_assignments (
//	    booth_id    UUID NOT NULL REFERENCES booths (id),
//	    attendee_id UUID NOT NULL REFERENCES attendees (id),
//	    assigned_at TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (booth_id, attendee_id)
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateBooth(ctx context.Context, b *Booth) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO booths (id, event_id, label, capacity)
		VALUES ($1, $2, $3, $4)`,
		uuid.UUID(b.ID), uuid.UUID(b.EventID), b.Label, b.Capacity,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert booth: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetBooth(ctx context.Context, boothID id.BoothID) (*Booth, error) {
	var b Booth
	var bID, eventID uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, label, capacity FROM booths WHERE id = $1`,
		uuid.UUID(boothID),
	).Scan(&bID, &eventID, &b.Label, &b.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get booth: %w", err)
	}
	b.ID = id.BoothID(bID)
	b.EventID = id.EventID(eventID)
	return &b, nil
}

func (s *PostgresStore) ListBooths(ctx context.Context, eventID id.EventID) ([]Booth, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, label, capacity FROM booths
		WHERE event_id = $1
		ORDER BY seq`,
		uuid.UUID(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list booths: %w", err)
	}
	defer rows.Close()

	var out []Booth
	for rows.Next() {
		var b Booth
		var bID, evID uuid.UUID
		if err := rows.Scan(&bID, &evID, &b.Label, &b.Capacity); err != nil {
			return nil, fmt.Errorf("scan booth: %w", err)
		}
		b.ID = id.BoothID(bID)
		b.EventID = id.EventID(evID)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Assign(ctx context.Context, a *Assignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO booth_assignments (booth_id, attendee_id, assigned_at)
		VALUES ($1, $2, $3)`,
		uuid.UUID(a.BoothID), uuid.UUID(a.AttendeeID), a.AssignedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Unassign(ctx context.Context, boothID id.BoothID, attendeeID id.AttendeeID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM booth_assignments WHERE booth_id = $1 AND attendee_id = $2`,
		uuid.UUID(boothID), uuid.UUID(attendeeID),
	)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListAssignments(ctx context.Context, eventID id.EventID) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.booth_id, a.attendee_id, a.assigned_at
		FROM booth_assignments a
		JOIN booths b ON b.id = a.booth_id
		WHERE b.event_id = $1
		ORDER BY a.assigned_at, a.booth_id`,
		uuid.UUID(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		var boothID, attendeeID uuid.UUID
		if err := rows.Scan(&boothID, &attendeeID, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.BoothID = id.BoothID(boothID)
		a.AttendeeID = id.AttendeeID(attendeeID)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ReassignAttendee(ctx context.Context, from, to id.AttendeeID) error {
	return reassignAssignments(ctx, s.db, from, to)
}

// ReassignAttendeeTx is the transactional variant used by the merge store.
func (s *PostgresStore) ReassignAttendeeTx(ctx context.Context, tx *sql.Tx, from, to id.AttendeeID) error {
	return reassignAssignments(ctx, tx, from, to)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func reassignAssignments(ctx context.Context, db execer, from, to id.AttendeeID) error {
	// Repoint assignments unless the target already staffs the same booth,
	// then drop whatever could not move.
	_, err := db.ExecContext(ctx, `
		UPDATE booth_assignments a SET attendee_id = $2
		WHERE a.attendee_id = $1
		  AND NOT EXISTS (
		      SELECT 1 FROM booth_assignments p
		      WHERE p.attendee_id = $2 AND p.booth_id = a.booth_id
		  )`,
		uuid.UUID(from), uuid.UUID(to),
	)
	if err != nil {
		return fmt.Errorf("reassign assignments: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM booth_assignments WHERE attendee_id = $1`, uuid.UUID(from)); err != nil {
		return fmt.Errorf("drop colliding assignments: %w", err)
	}
	return nil
}
