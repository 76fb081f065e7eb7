package dedupe

import (
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
)

// MergeInstruction tells the storage layer how to collapse a duplicate group:
// re-point every dependent row (check-in scans, booth assignments) from the
// duplicates to the primary, then delete the duplicate rows.
//
// The primary's own scalar fields are never backfilled from the duplicates.
// The reviewer picks a whole surviving row, not field-level winners; anything
// unique to a losing row (say, a phone number the primary lacks) is gone
// unless the reviewer copies it by hand first. That simplification is the
// contract, not an oversight.
//
// Invariants: PrimaryID is never in DuplicateIDs; DuplicateIDs is non-empty.
type MergeInstruction struct {
	PrimaryID    id.AttendeeID   `json:"primary_id"`
	DuplicateIDs []id.AttendeeID `json:"duplicate_ids"`
}

// BuildMergeInstruction validates the reviewer's choice of surviving record
// and computes the duplicate set. Which record survives is a human decision;
// this function only checks membership and does the set arithmetic.
//
// Errors:
//   - CodeInvalidInput when primaryID is not a member of the group; the
//     caller re-prompts the reviewer.
//   - CodeInvariantViolation when removing the primary leaves no duplicates.
//     Detection never surfaces groups smaller than two, so this indicates a
//     bug upstream; callers must log it loudly and must not reach the
//     destructive delete step.
func BuildMergeInstruction(g Group, primaryID id.AttendeeID) (MergeInstruction, error) {
	if !g.Contains(primaryID) {
		return MergeInstruction{}, dErrors.New(dErrors.CodeInvalidInput, "primary id is not part of the duplicate group")
	}

	duplicates := make([]id.AttendeeID, 0, len(g.MemberIDs)-1)
	for _, m := range g.MemberIDs {
		if m != primaryID {
			duplicates = append(duplicates, m)
		}
	}
	if len(duplicates) == 0 {
		return MergeInstruction{}, dErrors.New(dErrors.CodeInvariantViolation, "degenerate duplicate group: no records left to merge")
	}

	return MergeInstruction{PrimaryID: primaryID, DuplicateIDs: duplicates}, nil
}
