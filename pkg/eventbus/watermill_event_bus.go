package eventbus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/events"
)

// WatermillEventBus publishes lifecycle events over a watermill transport.
type WatermillEventBus struct {
	publisher message.Publisher
}

func NewWatermillEventBus(pub message.Publisher) *WatermillEventBus {
	return &WatermillEventBus{publisher: pub}
}

// PublishEvent serializes the event and hands it to the transport. The
// identity parameter is accepted for interface symmetry but never attached:
// event recording does not depend on caller authorization, publishing is
// always performed as the service itself.
func (eb *WatermillEventBus) PublishEvent(_ context.Context, _ auth.Identity, event *events.EventRecord) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+watermill.NewULID(), payload)
	msg.Metadata.Set(events.ApplicationMetadataKey, event.Details.Application)
	msg.Metadata.Set(events.EventTypeMetadataKey, event.Details.Type)

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Close() error {
	return eb.publisher.Close()
}
