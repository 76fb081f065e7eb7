// Package dedupe finds suspected duplicate roster records and defines the
// merge contract that collapses them.
//
// Detection uses two independent fuzzy-identity criteria with OR semantics:
// real-world data entry errors produce either a typo'd name at the same email
// address, or the same name typed against two different addresses. Combining
// the criteria into one composite key would miss both cases. Normalization is
// case/whitespace folding only; no edit-distance matching. That trades recall
// for zero false positives, which is the right trade for a tool whose output
// drives record deletion.
package dedupe

import (
	"eventdesk/internal/attendee"
	id "eventdesk/pkg/domain"
	pstrings "eventdesk/pkg/platform/strings"
)

// GroupKind names the matching criterion that produced a group.
type GroupKind string

const (
	// GroupKindEmail groups records sharing a normalized email address.
	GroupKindEmail GroupKind = "email"
	// GroupKindNameOrg groups records sharing a normalized (name,
	// organization) pair.
	GroupKindNameOrg GroupKind = "name_org"
)

// Group is a set of two or more roster records that share one normalized
// identity key. Groups are derived, never persisted: every detection pass
// recomputes them from scratch.
//
// Groups are not disjoint. A record matched by both criteria appears in an
// email group and a name+org group simultaneously; the review UI shows both
// as separate evidence and the behavior is deliberate.
type Group struct {
	Kind      GroupKind       `json:"kind"`
	Key       string          `json:"key"`
	MemberIDs []id.AttendeeID `json:"member_ids"`
}

// Contains reports whether attendeeID is a member of the group.
func (g Group) Contains(attendeeID id.AttendeeID) bool {
	for _, m := range g.MemberIDs {
		if m == attendeeID {
			return true
		}
	}
	return false
}

type groupKey struct {
	kind GroupKind
	key  string
}

// Detect groups records by fuzzy-identity keys and returns every key shared
// by at least two records. It is a pure function: no I/O, no failure modes.
//
// Callers pre-partition by vendor flag; detection is never run on the mixed
// roster. Inputs of size 0 or 1 always yield no groups.
//
// For each record up to two keys are computed:
//   - an email key, when the email is non-empty after folding
//   - a name+org key, when both name and organization are non-empty after
//     folding
//
// A record with neither key can never be grouped. Members keep input order;
// groups keep first-seen key order.
func Detect(records []attendee.Attendee) []Group {
	members := make(map[groupKey][]id.AttendeeID)
	var order []groupKey

	add := func(k groupKey, attendeeID id.AttendeeID) {
		if _, seen := members[k]; !seen {
			order = append(order, k)
		}
		members[k] = append(members[k], attendeeID)
	}

	for _, r := range records {
		if email := pstrings.Fold(r.Email); email != "" {
			add(groupKey{kind: GroupKindEmail, key: email}, r.ID)
		}
		name := pstrings.Fold(r.Name)
		org := pstrings.Fold(r.Organization)
		if name != "" && org != "" {
			add(groupKey{kind: GroupKindNameOrg, key: name + "|" + org}, r.ID)
		}
	}

	var groups []Group
	for _, k := range order {
		ids := members[k]
		if len(ids) < 2 {
			continue
		}
		groups = append(groups, Group{
			Kind:      k.kind,
			Key:       k.key,
			MemberIDs: ids,
		})
	}
	return groups
}
