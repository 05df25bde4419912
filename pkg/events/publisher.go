package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	// Publish publishes an event to the message broker
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error

	// Close closes the publisher connection
	Close() error
}

// Emit publishes a v1 event using the headers carried by ctx. Failures are
// logged and never returned; a nil publisher is a no-op.
func Emit(ctx context.Context, publisher Publisher, exchange, eventName string, payload any) {
	if publisher == nil {
		return
	}

	headers := HeadersFromContext(ctx, ServiceName)

	event, err := NewEvent(eventName, EventVersionV1, payload, headers)
	if err != nil {
		zap.L().Error("Failed to build event", zap.String("event", eventName), zap.Error(err))
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := publisher.Publish(publishCtx, exchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", eventName),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
	}
}
