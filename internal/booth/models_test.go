package booth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "eventdesk/pkg/domain"
)

func TestNew(t *testing.T) {
	eventID := id.NewEventID()

	t.Run("valid", func(t *testing.T) {
		b, err := New(id.NewBoothID(), eventID, " Booth A ", 2)
		require.NoError(t, err)
		assert.Equal(t, "Booth A", b.Label)
	})

	t.Run("empty label", func(t *testing.T) {
		_, err := New(id.NewBoothID(), eventID, "  ", 2)
		assert.Error(t, err)
	})

	t.Run("zero capacity", func(t *testing.T) {
		_, err := New(id.NewBoothID(), eventID, "Booth A", 0)
		assert.Error(t, err)
	})
}

func TestOccupancy(t *testing.T) {
	eventID := id.NewEventID()
	small := Booth{ID: id.NewBoothID(), EventID: eventID, Label: "small", Capacity: 1}
	large := Booth{ID: id.NewBoothID(), EventID: eventID, Label: "large", Capacity: 4}
	empty := Booth{ID: id.NewBoothID(), EventID: eventID, Label: "empty", Capacity: 2}

	a1, a2, a3 := id.NewAttendeeID(), id.NewAttendeeID(), id.NewAttendeeID()
	assignments := []Assignment{
		{BoothID: small.ID, AttendeeID: a1},
		{BoothID: small.ID, AttendeeID: a2},
		{BoothID: large.ID, AttendeeID: a3},
	}

	report := Occupancy([]Booth{small, large, empty}, assignments)

	require.Len(t, report.Booths, 3)
	assert.Equal(t, 3, report.TotalBooths)
	assert.Equal(t, 3, report.TotalOccupants)
	assert.Equal(t, 1, report.BoothsOverLimit)

	assert.Equal(t, []id.AttendeeID{a1, a2}, report.Booths[0].AttendeeIDs)
	assert.True(t, report.Booths[0].OverCapacity)
	assert.False(t, report.Booths[1].OverCapacity)
	assert.Equal(t, 0, report.Booths[2].Occupants)
	assert.False(t, report.Booths[2].OverCapacity)

	t.Run("assignment for unknown booth is ignored", func(t *testing.T) {
		stray := []Assignment{{BoothID: id.NewBoothID(), AttendeeID: a1}}
		report := Occupancy([]Booth{small}, stray)
		assert.Equal(t, 0, report.TotalOccupants)
	})

	t.Run("no booths", func(t *testing.T) {
		report := Occupancy(nil, nil)
		assert.Equal(t, 0, report.TotalBooths)
		assert.Empty(t, report.Booths)
	})
}
