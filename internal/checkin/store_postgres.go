package checkin

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

// PostgresStore persists scans and desk keys in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE checkin_scans (
//	    id           UUID PRIMARY KEY,
//	    event_id     UUID NOT NULL,
//	    attendee_id  UUID NOT NULL REFERENCES attendees (id),
//	    desk_key_id  UUID NOT NULL,
//	    device       TEXT NOT NULL DEFAULT '',
//	    scanned_at   TIMESTAMPTZ NOT NULL,
//	    UNIQUE (event_id, attendee_id)
//	);
//
//	CREATE TABLE desk_keys (
//	    id         UUID PRIMARY KEY,
//	    event_id   UUID NOT NULL,
//	    label      TEXT NOT NULL,
//	    key_hash   TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const scanColumns = "id, event_id, attendee_id, desk_key_id, device, scanned_at"

func (s *PostgresStore) Append(ctx context.Context, scan *Scan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkin_scans (`+scanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(scan.ID), uuid.UUID(scan.EventID), uuid.UUID(scan.AttendeeID),
		uuid.UUID(scan.DeskKeyID), scan.Device, scan.ScannedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID id.EventID) ([]Scan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scanColumns+` FROM checkin_scans
		WHERE event_id = $1
		ORDER BY scanned_at, id`,
		uuid.UUID(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var scan Scan
		var scanID, evID, attendeeID, deskKeyID uuid.UUID
		if err := rows.Scan(&scanID, &evID, &attendeeID, &deskKeyID, &scan.Device, &scan.ScannedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scan.ID = id.ScanID(scanID)
		scan.EventID = id.EventID(evID)
		scan.AttendeeID = id.AttendeeID(attendeeID)
		scan.DeskKeyID = id.DeskKeyID(deskKeyID)
		out = append(out, scan)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByAttendee(ctx context.Context, attendeeIDs []id.AttendeeID) (map[id.AttendeeID]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT attendee_id, COUNT(*) FROM checkin_scans
		WHERE attendee_id = ANY($1)
		GROUP BY attendee_id`,
		pq.Array(rawIDs(attendeeIDs)),
	)
	if err != nil {
		return nil, fmt.Errorf("count scans: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.AttendeeID]int)
	for rows.Next() {
		var attendeeID uuid.UUID
		var n int
		if err := rows.Scan(&attendeeID, &n); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[id.AttendeeID(attendeeID)] = n
	}
	return counts, rows.Err()
}

func (s *PostgresStore) ReassignAttendee(ctx context.Context, from, to id.AttendeeID) error {
	return reassignScans(ctx, s.db, from, to)
}

// ReassignAttendeeTx is the transactional variant used by the merge store so
// scan repointing commits or rolls back with the rest of the merge.
func (s *PostgresStore) ReassignAttendeeTx(ctx context.Context, tx *sql.Tx, from, to id.AttendeeID) error {
	return reassignScans(ctx, tx, from, to)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// reassignScans is shared with the transactional merge store so the same
// collision rule applies inside and outside a merge transaction.
func reassignScans(ctx context.Context, db execer, from, to id.AttendeeID) error {
	// Repoint scans unless the target already checked in to the same event,
	// then drop whatever could not move.
	_, err := db.ExecContext(ctx, `
		UPDATE checkin_scans s SET attendee_id = $2
		WHERE s.attendee_id = $1
		  AND NOT EXISTS (
		      SELECT 1 FROM checkin_scans p
		      WHERE p.attendee_id = $2 AND p.event_id = s.event_id
		  )`,
		uuid.UUID(from), uuid.UUID(to),
	)
	if err != nil {
		return fmt.Errorf("reassign scans: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM checkin_scans WHERE attendee_id = $1`, uuid.UUID(from)); err != nil {
		return fmt.Errorf("drop colliding scans: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateDeskKey(ctx context.Context, key *DeskKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO desk_keys (id, event_id, label, key_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(key.ID), uuid.UUID(key.EventID), key.Label, key.KeyHash, key.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert desk key: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDeskKey(ctx context.Context, keyID id.DeskKeyID) (*DeskKey, error) {
	var key DeskKey
	var deskKeyID, eventID uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, label, key_hash, created_at FROM desk_keys WHERE id = $1`,
		uuid.UUID(keyID),
	).Scan(&deskKeyID, &eventID, &key.Label, &key.KeyHash, &key.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get desk key: %w", err)
	}
	key.ID = id.DeskKeyID(deskKeyID)
	key.EventID = id.EventID(eventID)
	return &key, nil
}

func (s *PostgresStore) ListDeskKeys(ctx context.Context, eventID id.EventID) ([]DeskKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, label, key_hash, created_at FROM desk_keys
		WHERE event_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list desk keys: %w", err)
	}
	defer rows.Close()

	var out []DeskKey
	for rows.Next() {
		var key DeskKey
		var deskKeyID, evID uuid.UUID
		if err := rows.Scan(&deskKeyID, &evID, &key.Label, &key.KeyHash, &key.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan desk key: %w", err)
		}
		key.ID = id.DeskKeyID(deskKeyID)
		key.EventID = id.EventID(evID)
		out = append(out, key)
	}
	return out, rows.Err()
}

func rawIDs(ids []id.AttendeeID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, attendeeID := range ids {
		out[i] = uuid.UUID(attendeeID)
	}
	return out
}
