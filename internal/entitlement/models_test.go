package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "eventdesk/pkg/domain"
)

func entry(key id.Feature) CatalogEntry {
	return CatalogEntry{ID: id.NewCatalogEntryID(), Key: key}
}

func TestBuildIndex(t *testing.T) {
	dashboard := entry(id.FeatureDashboard)
	reports := entry(id.FeatureReports)
	idx := BuildIndex([]CatalogEntry{dashboard, reports})

	assert.Equal(t, 2, idx.Len())

	entryID, ok := idx.IDFor(id.FeatureDashboard)
	require.True(t, ok)
	assert.Equal(t, dashboard.ID, entryID)

	feature, ok := idx.FeatureFor(reports.ID)
	require.True(t, ok)
	assert.Equal(t, id.FeatureReports, feature)

	_, ok = idx.IDFor(id.FeatureQRScanner)
	assert.False(t, ok)

	t.Run("duplicate key keeps first entry", func(t *testing.T) {
		second := entry(id.FeatureDashboard)
		idx := BuildIndex([]CatalogEntry{dashboard, second})
		entryID, ok := idx.IDFor(id.FeatureDashboard)
		require.True(t, ok)
		assert.Equal(t, dashboard.ID, entryID)
	})
}

func TestIsEnabled(t *testing.T) {
	dashboard := entry(id.FeatureDashboard)
	reports := entry(id.FeatureReports)
	idx := BuildIndex([]CatalogEntry{dashboard, reports})
	enabled := NewIDSet(dashboard.ID, reports.ID)

	assert.True(t, IsEnabled(id.FeatureDashboard, enabled, idx))
	assert.True(t, IsEnabled(id.FeatureReports, enabled, idx))

	t.Run("fail closed when catalog lacks the feature", func(t *testing.T) {
		// Enabled set is full, but qr_scanner has no catalog entry.
		assert.False(t, IsEnabled(id.FeatureQRScanner, enabled, idx))
	})

	t.Run("disabled when entry exists but is not in the set", func(t *testing.T) {
		assert.False(t, IsEnabled(id.FeatureDashboard, NewIDSet(reports.ID), idx))
	})
}

func TestComputeDiff(t *testing.T) {
	u1, u2, u3 := id.NewCatalogEntryID(), id.NewCatalogEntryID(), id.NewCatalogEntryID()

	t.Run("identical sets produce a no-op diff", func(t *testing.T) {
		s := NewIDSet(u1, u2)
		d := ComputeDiff(s, s)
		assert.True(t, d.IsEmpty())
		assert.Empty(t, d.ToAdd)
		assert.Empty(t, d.ToRemove)
	})

	t.Run("add and remove are the set differences", func(t *testing.T) {
		d := ComputeDiff(NewIDSet(u1, u2), NewIDSet(u2, u3))
		assert.Equal(t, []id.CatalogEntryID{u3}, d.ToAdd)
		assert.Equal(t, []id.CatalogEntryID{u1}, d.ToRemove)
	})

	t.Run("add and remove are disjoint", func(t *testing.T) {
		d := ComputeDiff(NewIDSet(u1, u2), NewIDSet(u2, u3))
		for _, added := range d.ToAdd {
			assert.NotContains(t, d.ToRemove, added)
		}
	})

	t.Run("applying the diff reconstructs the desired set", func(t *testing.T) {
		current := NewIDSet(u1, u2)
		desired := NewIDSet(u2, u3)
		d := ComputeDiff(current, desired)

		result := current.Clone()
		for _, entryID := range d.ToAdd {
			result[entryID] = struct{}{}
		}
		for _, entryID := range d.ToRemove {
			delete(result, entryID)
		}
		assert.Equal(t, desired, result)
	})

	t.Run("output order is deterministic", func(t *testing.T) {
		first := ComputeDiff(NewIDSet(), NewIDSet(u1, u2, u3))
		second := ComputeDiff(NewIDSet(), NewIDSet(u3, u2, u1))
		assert.Equal(t, first, second)
	})
}

func TestEnableAllDisableAll(t *testing.T) {
	dashboard := entry(id.FeatureDashboard)
	reports := entry(id.FeatureReports)
	idx := BuildIndex([]CatalogEntry{dashboard, reports})

	t.Run("enable unions mapped ids", func(t *testing.T) {
		out, skipped := EnableAll([]id.Feature{id.FeatureDashboard, id.FeatureReports}, NewIDSet(), idx)
		assert.Equal(t, NewIDSet(dashboard.ID, reports.ID), out)
		assert.Empty(t, skipped)
	})

	t.Run("enable is idempotent", func(t *testing.T) {
		once, _ := EnableAll([]id.Feature{id.FeatureDashboard}, NewIDSet(reports.ID), idx)
		twice, _ := EnableAll([]id.Feature{id.FeatureDashboard}, once, idx)
		assert.Equal(t, once, twice)
	})

	t.Run("disable subtracts mapped ids", func(t *testing.T) {
		out, skipped := DisableAll([]id.Feature{id.FeatureDashboard}, NewIDSet(dashboard.ID, reports.ID), idx)
		assert.Equal(t, NewIDSet(reports.ID), out)
		assert.Empty(t, skipped)
	})

	t.Run("disable is idempotent", func(t *testing.T) {
		once, _ := DisableAll([]id.Feature{id.FeatureDashboard}, NewIDSet(dashboard.ID), idx)
		twice, _ := DisableAll([]id.Feature{id.FeatureDashboard}, once, idx)
		assert.Equal(t, once, twice)
	})

	t.Run("unmapped features are skipped, not errors", func(t *testing.T) {
		out, skipped := EnableAll([]id.Feature{id.FeatureQRScanner, id.FeatureDashboard}, NewIDSet(), idx)
		assert.Equal(t, NewIDSet(dashboard.ID), out)
		assert.Equal(t, []id.Feature{id.FeatureQRScanner}, skipped)
	})

	t.Run("input set is not mutated", func(t *testing.T) {
		current := NewIDSet(reports.ID)
		_, _ = EnableAll([]id.Feature{id.FeatureDashboard}, current, idx)
		assert.Equal(t, NewIDSet(reports.ID), current)
	})
}

func TestNewCatalogEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		e, err := NewCatalogEntry(id.NewCatalogEntryID(), " dashboard ")
		require.NoError(t, err)
		assert.Equal(t, id.FeatureDashboard, e.Key)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := NewCatalogEntry(id.NewCatalogEntryID(), "teleportation")
		assert.Error(t, err)
	})
}
