//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"eventdesk/internal/audit"
	auditkafka "eventdesk/internal/audit/kafka"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/testutil/containers"
)

func TestPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redpanda := containers.GetManager().GetRedpanda(t)
	topic := "eventdesk.audit.test." + uuid.NewString()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pub, err := auditkafka.New(ctx, redpanda.Brokers, topic, logger)
	require.NoError(t, err)

	eventID := id.NewEventID()
	sent := audit.Event{
		Category:  audit.CategoryRoster,
		Action:    audit.ActionAttendeesMerged,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Actor:     "ops@example.com",
		RequestID: uuid.NewString(),
		EventID:   eventID,
		Subject:   uuid.NewString(),
		Details:   map[string]string{"merged_count": "2"},
	}
	require.NoError(t, pub.Emit(ctx, sent))
	require.NoError(t, pub.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)

	// Records are keyed by action so consumers partition compatible
	// actions together.
	require.Equal(t, []byte(audit.ActionAttendeesMerged), records[0].Key)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, sent.Action, got.Action)
	require.Equal(t, sent.Category, got.Category)
	require.Equal(t, sent.Actor, got.Actor)
	require.Equal(t, sent.EventID, got.EventID)
	require.Equal(t, sent.Details, got.Details)
}
