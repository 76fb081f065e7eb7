package service_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/attendee"
	"eventdesk/internal/attendee/service"
	"eventdesk/internal/audit"
	id "eventdesk/pkg/domain"
	dErrors "eventdesk/pkg/domain-errors"
	"eventdesk/pkg/requestcontext"
)

type fixture struct {
	store   *attendee.InMemoryStore
	auditor *audit.MemoryPublisher
	service *service.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := attendee.NewInMemoryStore()
	auditor := audit.NewMemoryPublisher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := service.New(store, logger, service.WithAudit(auditor))
	require.NoError(t, err)
	return &fixture{store: store, auditor: auditor, service: svc}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	eventID := id.NewEventID()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("trims contact fields", func(t *testing.T) {
		a, err := f.service.Create(ctx, service.CreateInput{
			EventID:      eventID,
			Name:         "  Dana Reyes  ",
			Email:        " dana@example.com ",
			Organization: " Acme ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Dana Reyes", a.Name)
		assert.Equal(t, "dana@example.com", a.Email)
		assert.Equal(t, "Acme", a.Organization)
		assert.Equal(t, now, a.CreatedAt)
		assert.False(t, a.IsVendor)

		events := f.auditor.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionAttendeeCreated, events[0].Action)
		assert.Equal(t, audit.CategoryRoster, events[0].Category)
		assert.Equal(t, a.ID.String(), events[0].Subject)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := f.service.Create(ctx, service.CreateInput{EventID: eventID, Name: "   "})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := f.service.Create(ctx, service.CreateInput{
			EventID: eventID,
			Name:    strings.Repeat("x", 129),
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestListRosterPartitions(t *testing.T) {
	f := newFixture(t)
	eventID := id.NewEventID()
	ctx := context.Background()

	_, err := f.service.Create(ctx, service.CreateInput{EventID: eventID, Name: "Dana"})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, service.CreateInput{EventID: eventID, Name: "Acme Booth", IsVendor: true})
	require.NoError(t, err)

	people, err := f.service.ListRoster(ctx, eventID, attendee.ScopeAttendees)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Dana", people[0].Name)

	vendors, err := f.service.ListRoster(ctx, eventID, attendee.ScopeVendors)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.True(t, vendors[0].IsVendor)

	all, err := f.service.ListRoster(ctx, eventID, attendee.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	eventID := id.NewEventID()
	ctx := context.Background()

	created, err := f.service.Create(ctx, service.CreateInput{EventID: eventID, Name: "Dana"})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, created.ID, service.UpdateInput{
		Name:  "Dana Reyes",
		Email: "dana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", updated.Name)
	assert.Equal(t, "dana@example.com", updated.Email)

	_, err = f.service.Update(ctx, created.ID, service.UpdateInput{Name: ""})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = f.service.Update(ctx, id.NewAttendeeID(), service.UpdateInput{Name: "Ghost"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	eventID := id.NewEventID()
	ctx := context.Background()

	created, err := f.service.Create(ctx, service.CreateInput{EventID: eventID, Name: "Dana"})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, created.ID))

	_, err = f.service.Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	events := f.auditor.Events()
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionAttendeeDeleted, events[1].Action)

	err = f.service.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
