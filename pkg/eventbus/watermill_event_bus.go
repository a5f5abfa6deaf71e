package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dukex/graphdesk/pkg/events"
)

// WatermillEventBus publishes editor events as JSON messages on a single topic
// and fans each one out to every handler registered for its type.
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter

	mu       sync.RWMutex
	handlers map[events.EventType][]EventHandler
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber, logger watermill.LoggerAdapter) EventBus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	return &WatermillEventBus{
		publisher:  pub,
		subscriber: sub,
		logger:     logger,
		handlers:   make(map[events.EventType][]EventHandler),
	}
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.GetType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

// Subscribe starts delivering messages to the registered handlers until ctx
// is done or the bus is closed.
func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.Topic, err)
	}

	go func() {
		for msg := range messages {
			if err := eb.dispatch(ctx, msg); err != nil {
				eb.logger.Error("Failed to handle editor event", err, watermill.LogFields{
					"message_uuid": msg.UUID,
					"event_type":   msg.Metadata.Get(events.EventTypeMetadataKey),
				})
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

// dispatch decodes a message and runs its handlers in registration order.
// Types nobody listens to are acknowledged without decoding.
func (eb *WatermillEventBus) dispatch(ctx context.Context, msg *message.Message) error {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	eb.mu.RLock()
	handlers := eb.handlers[eventType]
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	event, err := events.Decode(eventType, msg.Payload)
	if err != nil {
		return err
	}

	for _, handle := range handlers {
		if err := handle(ctx, event); err != nil {
			return err
		}
	}

	return nil
}

// Handle adds a handler for an event type. Earlier handlers stay registered.
func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)

	return nil
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}
