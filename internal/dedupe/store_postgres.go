package dedupe

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

// TxReassigner re-points dependent rows inside a caller-owned transaction.
// The check-in and booth postgres stores implement it.
type TxReassigner interface {
	ReassignAttendeeTx(ctx context.Context, tx *sql.Tx, from, to id.AttendeeID) error
}

// PostgresMergeStore applies a merge in a single transaction: dependent rows
// move first, then the duplicate roster rows are deleted. Any failure rolls
// the whole merge back.
type PostgresMergeStore struct {
	db         *sql.DB
	dependents []TxReassigner
}

func NewPostgresMergeStore(db *sql.DB, dependents ...TxReassigner) *PostgresMergeStore {
	return &PostgresMergeStore{db: db, dependents: dependents}
}

func (s *PostgresMergeStore) ApplyMerge(ctx context.Context, instr MergeInstruction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback()

	for _, dup := range instr.DuplicateIDs {
		for _, dep := range s.dependents {
			if err := dep.ReassignAttendeeTx(ctx, tx, dup, instr.PrimaryID); err != nil {
				return fmt.Errorf("reassign dependents of %s: %w", dup, err)
			}
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM attendees WHERE id = ANY($1)`,
		pq.Array(rawAttendeeIDs(instr.DuplicateIDs)))
	if err != nil {
		return fmt.Errorf("delete duplicates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(instr.DuplicateIDs)) {
		// A duplicate vanished between detection and merge; roll back rather
		// than half-apply.
		return sentinel.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}

var _ MergeStore = (*PostgresMergeStore)(nil)

func rawAttendeeIDs(ids []id.AttendeeID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, attendeeID := range ids {
		out[i] = uuid.UUID(attendeeID)
	}
	return out
}
