package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/alexgaganashvili/orca/pkg/channels/gochannel"
	"github.com/alexgaganashvili/orca/pkg/channels/kafka"
	"github.com/alexgaganashvili/orca/pkg/eventbus"
)

// NewEventBus creates an event publisher instance based on the provider.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventPublisher {
	switch provider {
	case "kafka":
		pub, err := kafka.CreatePublisher(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka publisher: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub)
	case "gochannel":
		pub, _ := gochannel.CreateChannel(watermill.NewSlogLogger(logger))

		return eventbus.NewWatermillEventBus(pub)
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
