// Package eventbus carries module events over watermill, in process or
// through NATS.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// EventBus publishes and subscribes to topics. It satisfies both
// message.Publisher and message.Subscriber, so it can be handed to a
// watermill router directly.
type EventBus interface {
	message.Publisher
	message.Subscriber
	PublishJSON(ctx context.Context, topic string, payload any) error
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
	closeOnce  sync.Once
}

// NewEventBus returns a NATS backed bus when natsURL is set and an
// in-process bus otherwise.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	if natsURL == "" {
		logger.InfoContext(ctx, "Using in-process event bus")
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermillLogger)
		return &eventBus{publisher: pubSub, subscriber: pubSub, logger: logger}, nil
	}

	marshaler := &nats.NATSMarshaler{}
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Name("scorekeeper"),
	}
	jsConfig := nats.JetStreamConfig{Disabled: true}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         natsURL,
			Marshaler:   marshaler,
			NatsOptions: natsOptions,
			JetStream:   jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create NATS publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              natsURL,
			Unmarshaler:      marshaler,
			NatsOptions:      natsOptions,
			QueueGroupPrefix: "scorekeeper",
			SubscribersCount: 1,
			JetStream:        jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		publisher.Close()
		logger.ErrorContext(ctx, "Failed to create NATS subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected event bus to NATS", slog.String("url", natsURL))
	return &eventBus{publisher: publisher, subscriber: subscriber, logger: logger}, nil
}

func (eb *eventBus) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	if err := eb.publisher.Publish(topic, msgs...); err != nil {
		eb.logger.Error("Failed to publish message", slog.String("topic", topic), slog.Any("error", err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// PublishJSON encodes payload as JSON and publishes it on topic.
func (eb *eventBus) PublishJSON(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	msg.SetContext(ctx)

	eb.logger.DebugContext(ctx, "Publishing message",
		slog.String("topic", topic),
		slog.String("message_id", msg.UUID),
	)
	return eb.Publish(topic, msg)
}

// Subscribe returns the message stream for topic. Every message must be
// acked or nacked.
func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	eb.logger.InfoContext(ctx, "Subscription started", slog.String("topic", topic))
	return messages, nil
}

// Close stops publishing and ends every subscription.
func (eb *eventBus) Close() error {
	var err error
	eb.closeOnce.Do(func() {
		if pubErr := eb.publisher.Close(); pubErr != nil {
			err = fmt.Errorf("failed to close publisher: %w", pubErr)
		}
		if any(eb.subscriber) != any(eb.publisher) {
			if subErr := eb.subscriber.Close(); subErr != nil && err == nil {
				err = fmt.Errorf("failed to close subscriber: %w", subErr)
			}
		}
	})
	return err
}
