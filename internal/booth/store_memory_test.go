package booth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/sentinel"
)

func TestInMemoryStoreReassignAttendee(t *testing.T) {
	seed := func(t *testing.T) (*InMemoryStore, Booth) {
		t.Helper()
		store := NewInMemoryStore()
		b := Booth{ID: id.NewBoothID(), EventID: id.NewEventID(), Label: "A", Capacity: 2}
		require.NoError(t, store.CreateBooth(context.Background(), &b))
		return store, b
	}

	t.Run("assignment moves to the target", func(t *testing.T) {
		store, b := seed(t)
		from, to := id.NewAttendeeID(), id.NewAttendeeID()
		require.NoError(t, store.Assign(context.Background(), &Assignment{
			BoothID: b.ID, AttendeeID: from, AssignedAt: time.Now(),
		}))

		require.NoError(t, store.ReassignAttendee(context.Background(), from, to))

		assignments, err := store.ListAssignments(context.Background(), b.EventID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, to, assignments[0].AttendeeID)
	})

	t.Run("duplicate pair collapses on collision", func(t *testing.T) {
		store, b := seed(t)
		from, to := id.NewAttendeeID(), id.NewAttendeeID()
		require.NoError(t, store.Assign(context.Background(), &Assignment{
			BoothID: b.ID, AttendeeID: to, AssignedAt: time.Now(),
		}))
		require.NoError(t, store.Assign(context.Background(), &Assignment{
			BoothID: b.ID, AttendeeID: from, AssignedAt: time.Now(),
		}))

		require.NoError(t, store.ReassignAttendee(context.Background(), from, to))

		assignments, err := store.ListAssignments(context.Background(), b.EventID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, to, assignments[0].AttendeeID)
	})
}

func TestInMemoryStoreAssign(t *testing.T) {
	store := NewInMemoryStore()
	b := Booth{ID: id.NewBoothID(), EventID: id.NewEventID(), Label: "A", Capacity: 1}
	require.NoError(t, store.CreateBooth(context.Background(), &b))

	attendeeID := id.NewAttendeeID()
	require.NoError(t, store.Assign(context.Background(), &Assignment{BoothID: b.ID, AttendeeID: attendeeID}))

	err := store.Assign(context.Background(), &Assignment{BoothID: b.ID, AttendeeID: attendeeID})
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	err = store.Unassign(context.Background(), b.ID, id.NewAttendeeID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
