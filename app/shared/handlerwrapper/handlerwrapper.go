// Package handlerwrapper adapts typed event handlers to watermill.
package handlerwrapper

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/events"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WrapTyped decodes the message into T and calls handler.
//
// Undecodable messages and domain failures are logged and acked. Any other
// error nacks the message so the router's retry middleware can redeliver it.
func WrapTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler func(ctx context.Context, payload *T) error,
) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := attr.WithCorrelationID(msg.Context(), msg.Metadata.Get(events.MetadataCorrelationID))

		var span trace.Span
		if tracer != nil {
			ctx, span = tracer.Start(ctx, handlerName, trace.WithAttributes(
				attribute.String("message.uuid", msg.UUID),
				attribute.String("guild_id", msg.Metadata.Get(events.MetadataGuildID)),
			))
			defer span.End()
		}

		payload, err := events.Decode[T](msg)
		if err != nil {
			logger.ErrorContext(ctx, "Dropping undecodable message",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			return nil
		}

		if err := handler(ctx, payload); err != nil {
			if domainerr.IsRecoverable(err) || errors.Is(err, domainerr.ErrExternalSync) {
				logger.WarnContext(ctx, "Handler finished with failure",
					attr.ExtractCorrelationID(ctx),
					attr.String("handler", handlerName),
					attr.Error(err),
				)
				return nil
			}
			if span != nil {
				span.RecordError(err)
			}
			return err
		}
		return nil
	}
}
