package providers

import (
	"context"

	"github.com/dcastano/turnero/internal/domain/entities"
)

// Event channels.
const (
	// EventChannelReservations carries reservation lifecycle events
	EventChannelReservations = "reservations:events"
)

// EventBus defines the interface for publishing and subscribing to
// reservation events
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.ReservationEvent) error

	// Subscribe subscribes to events on a channel; the channel is closed
	// when ctx is cancelled
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ReservationEvent, error)

	// Close shuts down the bus and all subscriptions
	Close() error
}
