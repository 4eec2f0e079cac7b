// Package eventbus publishes and consumes flow lifecycle events over
// watermill, one topic per event type.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/voxline/scriptflow/pkg/events"
)

// Event is anything the bus can route: every flow event implements GetType.
type Event interface {
	GetType() events.EventType
}

type EventHandler func(ctx context.Context, event Event) error

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType events.EventType, handler EventHandler) error
}

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// eventFactories builds an empty event of each routable type so Subscribe
// can unmarshal payloads without reflection.
var eventFactories = map[events.EventType]func() Event{
	events.FlowStartedEvent:       func() Event { return &events.FlowStarted{} },
	events.TurnProcessedEvent:     func() Event { return &events.TurnProcessed{} },
	events.StateTransitionedEvent: func() Event { return &events.StateTransitioned{} },
	events.FlowEndedEvent:         func() Event { return &events.FlowEnded{} },
}

type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber, logger *slog.Logger) EventBus {
	return &WatermillEventBus{
		publisher:  pub,
		subscriber: sub,
		logger:     logger,
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

// Publish routes the event to the topic named after its type.
func (eb *WatermillEventBus) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.GetType(), err)
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(string(event.GetType()), msg)
}

// Subscribe consumes one event type. The handler runs on a dedicated
// goroutine; a handler error nacks the message.
func (eb *WatermillEventBus) Subscribe(ctx context.Context, eventType events.EventType, handler EventHandler) error {
	factory, ok := eventFactories[eventType]
	if !ok {
		return fmt.Errorf("unknown event type %q", eventType)
	}

	messages, err := eb.subscriber.Subscribe(ctx, string(eventType))
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", eventType, err)
	}

	go func() {
		for msg := range messages {
			event := factory()

			if err := json.Unmarshal(msg.Payload, event); err != nil {
				eb.logger.Error("Failed to decode event", "event_type", eventType, "error", err)
				msg.Nack()

				continue
			}

			if err := handler(ctx, event); err != nil {
				eb.logger.Error("Event handler failed", "event_type", eventType, "error", err)
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}
