package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Metadata keys set on every event.
const (
	MetadataCorrelationID = "correlation_id"
	MetadataTopic         = "topic"
	MetadataGuildID       = "guild_id"
)

// NewMessage encodes payload as JSON and stamps the correlation id from ctx.
func NewMessage(ctx context.Context, topic string, guildID string, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.NewString(), body)
	correlationID := attr.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = msg.UUID
	}
	msg.Metadata.Set(MetadataCorrelationID, correlationID)
	msg.Metadata.Set(MetadataTopic, topic)
	msg.Metadata.Set(MetadataGuildID, guildID)
	msg.SetContext(ctx)
	return msg, nil
}

// Decode unmarshals a message body into T.
func Decode[T any](msg *message.Message) (*T, error) {
	out := new(T)
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", msg.Metadata.Get(MetadataTopic), err)
	}
	return out, nil
}

// Emitter publishes events after a transaction has committed. A failed publish
// is logged and never surfaces to the caller: the ledger change already stands.
type Emitter struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewEmitter returns an Emitter. A nil publisher drops every event.
func NewEmitter(publisher message.Publisher, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{publisher: publisher, logger: logger}
}

// Emit publishes payload on topic.
func (e *Emitter) Emit(ctx context.Context, topic string, guildID string, payload any) {
	if e == nil || e.publisher == nil {
		return
	}
	msg, err := NewMessage(ctx, topic, guildID, payload)
	if err == nil {
		err = e.publisher.Publish(topic, msg)
	}
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.GuildID(guildID),
			attr.Error(err),
		)
		return
	}
	e.logger.DebugContext(ctx, "Event published",
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)
}
