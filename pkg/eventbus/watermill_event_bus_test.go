package eventbus_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/channels/gochannel"
	"github.com/alexgaganashvili/orca/pkg/eventbus"
	"github.com/alexgaganashvili/orca/pkg/events"
	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillEventBusPublishesToTopic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub, sub := gochannel.CreateChannel(watermill.NopLogger{})

	messages, err := sub.Subscribe(ctx, events.Topic)
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub)
	defer func() { _ = bus.Close() }()

	record := events.NewEventRecord(events.Details{
		Source:      events.Source,
		Type:        events.TypeTag(models.ExecutionTypePipeline, events.PhaseComplete),
		Application: "orca-demo",
	}, map[string]any{"executionId": "exec-1"})

	require.NoError(t, bus.PublishEvent(ctx, auth.Anonymous, record))

	select {
	case msg := <-messages:
		msg.Ack()

		assert.Equal(t, "orca-demo", msg.Metadata.Get(events.ApplicationMetadataKey))
		assert.Equal(t, "orca:pipeline:complete", msg.Metadata.Get(events.EventTypeMetadataKey))

		var received events.EventRecord

		require.NoError(t, json.Unmarshal(msg.Payload, &received))
		assert.Equal(t, record.ID, received.ID)
		assert.Equal(t, "exec-1", received.Content["executionId"])
	case <-ctx.Done():
		t.Fatal("timed out waiting for published event")
	}
}
