// Package entitlement resolves which features a plan enables. Plans store
// catalog entry UUIDs; application code asks about features by name. The
// catalog maps between the two, and everything here fails closed: a feature
// the catalog does not know is never enabled.
package entitlement

import (
	"sort"
	"strings"

	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
)

// CatalogEntry is the persisted row mapping a storage-level UUID to a
// canonical feature key.
type CatalogEntry struct {
	ID  id.CatalogEntryID `json:"id"`
	Key id.Feature        `json:"key"`
}

// NewCatalogEntry validates and constructs a CatalogEntry.
func NewCatalogEntry(entryID id.CatalogEntryID, key string) (*CatalogEntry, error) {
	feature, err := id.ParseFeature(strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	if entryID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "catalog entry id cannot be nil")
	}
	return &CatalogEntry{ID: entryID, Key: feature}, nil
}

// Index is the bidirectional feature/UUID mapping built once per catalog
// fetch and passed explicitly through call sites. There is no ambient cached
// index: a refetched catalog gets a fresh one, so a mid-session catalog
// change can never leave stale mappings behind.
type Index struct {
	byFeature map[id.Feature]id.CatalogEntryID
	byID      map[id.CatalogEntryID]id.Feature
}

// BuildIndex constructs an Index from catalog entries. A duplicated feature
// key keeps its first entry.
func BuildIndex(entries []CatalogEntry) Index {
	idx := Index{
		byFeature: make(map[id.Feature]id.CatalogEntryID, len(entries)),
		byID:      make(map[id.CatalogEntryID]id.Feature, len(entries)),
	}
	for _, e := range entries {
		if _, ok := idx.byFeature[e.Key]; ok {
			continue
		}
		idx.byFeature[e.Key] = e.ID
		idx.byID[e.ID] = e.Key
	}
	return idx
}

// IDFor maps a feature to its catalog entry UUID.
func (idx Index) IDFor(feature id.Feature) (id.CatalogEntryID, bool) {
	entryID, ok := idx.byFeature[feature]
	return entryID, ok
}

// FeatureFor maps a catalog entry UUID back to its feature.
func (idx Index) FeatureFor(entryID id.CatalogEntryID) (id.Feature, bool) {
	feature, ok := idx.byID[entryID]
	return feature, ok
}

// Len returns the number of indexed entries.
func (idx Index) Len() int { return len(idx.byFeature) }

// IDSet is a set of catalog entry UUIDs.
type IDSet map[id.CatalogEntryID]struct{}

// NewIDSet builds a set from a slice.
func NewIDSet(ids ...id.CatalogEntryID) IDSet {
	s := make(IDSet, len(ids))
	for _, entryID := range ids {
		s[entryID] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s IDSet) Contains(entryID id.CatalogEntryID) bool {
	_, ok := s[entryID]
	return ok
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for entryID := range s {
		out[entryID] = struct{}{}
	}
	return out
}

// Sorted returns the members ordered by UUID string, so audit payloads and
// tests are stable.
func (s IDSet) Sorted() []id.CatalogEntryID {
	out := make([]id.CatalogEntryID, 0, len(s))
	for entryID := range s {
		out = append(out, entryID)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// IsEnabled reports whether a plan with the given enabled entry IDs has the
// feature. Fail-closed: a feature absent from the catalog is never enabled,
// regardless of what the enabled set contains.
func IsEnabled(feature id.Feature, enabled IDSet, idx Index) bool {
	entryID, ok := idx.IDFor(feature)
	if !ok {
		return false
	}
	return enabled.Contains(entryID)
}

// Diff is the minimal set of mutations moving a persisted set from current
// to desired. ToAdd and ToRemove are disjoint by construction and sorted for
// determinism.
type Diff struct {
	ToAdd    []id.CatalogEntryID `json:"to_add"`
	ToRemove []id.CatalogEntryID `json:"to_remove"`
}

// IsEmpty reports whether the diff is a no-op.
func (d Diff) IsEmpty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// ComputeDiff returns the set differences between current and desired.
// Storage receives the diff, never a full replace, so unrelated concurrent
// toggles by other admins are not clobbered.
func ComputeDiff(current, desired IDSet) Diff {
	var d Diff
	for entryID := range desired {
		if !current.Contains(entryID) {
			d.ToAdd = append(d.ToAdd, entryID)
		}
	}
	for entryID := range current {
		if !desired.Contains(entryID) {
			d.ToRemove = append(d.ToRemove, entryID)
		}
	}
	sort.Slice(d.ToAdd, func(i, j int) bool { return d.ToAdd[i].String() < d.ToAdd[j].String() })
	sort.Slice(d.ToRemove, func(i, j int) bool { return d.ToRemove[i].String() < d.ToRemove[j].String() })
	return d
}

// EnableAll unions the mapped entry IDs of the given features into current.
// Features with no catalog entry are skipped and returned for the caller to
// log as data-integrity warnings; a drifted catalog is an operator problem,
// not a request failure. Idempotent.
func EnableAll(features []id.Feature, current IDSet, idx Index) (IDSet, []id.Feature) {
	out := current.Clone()
	var skipped []id.Feature
	for _, feature := range features {
		entryID, ok := idx.IDFor(feature)
		if !ok {
			skipped = append(skipped, feature)
			continue
		}
		out[entryID] = struct{}{}
	}
	return out, skipped
}

// DisableAll subtracts the mapped entry IDs of the given features from
// current. Unmapped features are skipped and returned, as in EnableAll.
// Idempotent.
func DisableAll(features []id.Feature, current IDSet, idx Index) (IDSet, []id.Feature) {
	out := current.Clone()
	var skipped []id.Feature
	for _, feature := range features {
		entryID, ok := idx.IDFor(feature)
		if !ok {
			skipped = append(skipped, feature)
			continue
		}
		delete(out, entryID)
	}
	return out, skipped
}

// Plan is a named bundle of enabled features assignable to an event.
type Plan struct {
	ID          id.PlanID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}
