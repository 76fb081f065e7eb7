package entitlement

import (
	dErrors "eventdesk/pkg/domain-errors"
)

// SessionState names a phase of a plan-editing session.
type SessionState string

const (
	// StateViewing shows the persisted feature set; edits are not accepted.
	StateViewing SessionState = "viewing"
	// StateEditing accumulates local changes against the baseline.
	StateEditing SessionState = "editing"
	// StateSaving has a diff in flight; further edits wait for the outcome.
	StateSaving SessionState = "saving"
)

// EditSession tracks one admin's plan-editing flow. It is pure local state,
// never persisted: Viewing → Editing → Saving → Viewing on success, with a
// failed save returning to Editing so in-progress work is not lost.
//
// The zero value is not usable; construct with NewEditSession.
type EditSession struct {
	state    SessionState
	baseline IDSet
	desired  IDSet
}

// NewEditSession starts a session over the plan's persisted feature set.
func NewEditSession(current IDSet) *EditSession {
	return &EditSession{
		state:    StateViewing,
		baseline: current.Clone(),
		desired:  current.Clone(),
	}
}

// State returns the current phase.
func (s *EditSession) State() SessionState { return s.state }

// Desired returns a copy of the locally edited set.
func (s *EditSession) Desired() IDSet { return s.desired.Clone() }

// Diff returns the pending changes against the baseline.
func (s *EditSession) Diff() Diff {
	return ComputeDiff(s.baseline, s.desired)
}

// StartEditing transitions Viewing → Editing.
func (s *EditSession) StartEditing() error {
	if s.state != StateViewing {
		return dErrors.Newf(dErrors.CodeConflict, "cannot start editing from %s", s.state)
	}
	s.state = StateEditing
	return nil
}

// SetDesired replaces the locally edited set. Only valid while editing.
func (s *EditSession) SetDesired(desired IDSet) error {
	if s.state != StateEditing {
		return dErrors.Newf(dErrors.CodeConflict, "cannot edit features from %s", s.state)
	}
	s.desired = desired.Clone()
	return nil
}

// BeginSave transitions Editing → Saving and returns the diff to persist.
// An empty diff is rejected: there is nothing to save and the round-trip
// would be wasted.
func (s *EditSession) BeginSave() (Diff, error) {
	if s.state != StateEditing {
		return Diff{}, dErrors.Newf(dErrors.CodeConflict, "cannot save from %s", s.state)
	}
	d := s.Diff()
	if d.IsEmpty() {
		return Diff{}, dErrors.New(dErrors.CodeInvalidInput, "no feature changes to save")
	}
	s.state = StateSaving
	return d, nil
}

// CompleteSave transitions Saving → Viewing and resets the baseline to the
// saved set, so the next edit session diffs against what is now persisted.
func (s *EditSession) CompleteSave() error {
	if s.state != StateSaving {
		return dErrors.Newf(dErrors.CodeConflict, "cannot complete save from %s", s.state)
	}
	s.baseline = s.desired.Clone()
	s.state = StateViewing
	return nil
}

// FailSave transitions Saving → Editing with the baseline intact. The edits
// stay pending; the admin re-fetches or retries.
func (s *EditSession) FailSave() error {
	if s.state != StateSaving {
		return dErrors.Newf(dErrors.CodeConflict, "cannot fail save from %s", s.state)
	}
	s.state = StateEditing
	return nil
}
