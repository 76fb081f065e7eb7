package attendee

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

// PostgresStore persists the roster in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE attendees (
//	    id            UUID PRIMARY KEY,
//	    event_id      UUID NOT NULL,
//	    name          TEXT NOT NULL,
//	    email         TEXT NOT NULL DEFAULT '',
//	    organization  TEXT NOT NULL DEFAULT '',
//	    phone         TEXT NOT NULL DEFAULT '',
//	    notes         TEXT NOT NULL DEFAULT '',
//	    is_vendor     BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX attendees_event_idx ON attendees (event_id, created_at);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const attendeeColumns = "id, event_id, name, email, organization, phone, notes, is_vendor, created_at, updated_at"

func (s *PostgresStore) Create(ctx context.Context, a *Attendee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendees (`+attendeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(a.ID), uuid.UUID(a.EventID), a.Name, a.Email, a.Organization,
		a.Phone, a.Notes, a.IsVendor, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert attendee: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, attendeeID id.AttendeeID) (*Attendee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+attendeeColumns+` FROM attendees WHERE id = $1`,
		uuid.UUID(attendeeID),
	)
	a, err := scanAttendee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID id.EventID, scope Scope) ([]Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE event_id = $1`
	switch scope {
	case ScopeVendors:
		query += ` AND is_vendor`
	case ScopeAttendees:
		query += ` AND NOT is_vendor`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(eventID))
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var out []Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, a *Attendee) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE attendees
		SET name = $2, email = $3, organization = $4, phone = $5, notes = $6,
		    is_vendor = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(a.ID), a.Name, a.Email, a.Organization, a.Phone, a.Notes,
		a.IsVendor, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update attendee: %w", err)
	}
	return requireRowAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, attendeeID id.AttendeeID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attendees WHERE id = $1`, uuid.UUID(attendeeID))
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	return requireRowAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendee(row rowScanner) (*Attendee, error) {
	var a Attendee
	var attendeeID, eventID uuid.UUID
	err := row.Scan(&attendeeID, &eventID, &a.Name, &a.Email, &a.Organization,
		&a.Phone, &a.Notes, &a.IsVendor, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ID = id.AttendeeID(attendeeID)
	a.EventID = id.EventID(eventID)
	return &a, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
