// Package eventbus provides the outbound transport for lifecycle events.
package eventbus

import (
	"context"

	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/events"
)

// EventPublisher hands lifecycle events to the notification service. The
// identity is taken explicitly so call sites state which caller they act as;
// delivery is fire-and-forget, only transport failure is reported.
type EventPublisher interface {
	PublishEvent(ctx context.Context, identity auth.Identity, event *events.EventRecord) error
	Close() error
}
