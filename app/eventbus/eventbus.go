package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// EventBus publishes domain events and hands them to router subscribers.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// NewEventBus builds the transport named by cfg.Driver.
func NewEventBus(ctx context.Context, cfg config.EventBusConfig, logger *slog.Logger) (EventBus, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	switch cfg.Driver {
	case "", "memory":
		logger.InfoContext(ctx, "Using in-memory event bus")
		return gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: false,
		}, watermillLogger), nil
	case "nats":
		return newNATSBus(ctx, cfg.NATSURL, logger, watermillLogger)
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", cfg.Driver)
	}
}

// natsBus pairs a watermill NATS publisher and subscriber on core NATS.
type natsBus struct {
	publisher  *nats.Publisher
	subscriber *nats.Subscriber
}

func newNATSBus(ctx context.Context, url string, logger *slog.Logger, watermillLogger watermill.LoggerAdapter) (*natsBus, error) {
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{Disabled: true}
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Name("league-bot"),
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         url,
			Marshaler:   marshaler,
			NatsOptions: natsOptions,
			JetStream:   jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              url,
			QueueGroupPrefix: "league-bot",
			SubscribersCount: 1,
			Unmarshaler:      marshaler,
			NatsOptions:      natsOptions,
			JetStream:        jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		publisher.Close()
		logger.ErrorContext(ctx, "Failed to create Watermill subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected event bus to NATS", slog.String("url", url))
	return &natsBus{publisher: publisher, subscriber: subscriber}, nil
}

func (b *natsBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

func (b *natsBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

func (b *natsBus) Close() error {
	return errors.Join(b.subscriber.Close(), b.publisher.Close())
}

// NewRouter creates the watermill router shared by every module's handlers.
func NewRouter(logger *slog.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	return router, nil
}
