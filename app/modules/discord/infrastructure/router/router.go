package discordrouter

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/events"
	discordhandlers "github.com/Black-And-White-Club/league-bot/app/modules/discord/infrastructure/handlers"
	"github.com/Black-And-White-Club/league-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// DiscordRouter handles Watermill handler registration for Discord sync.
type DiscordRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	tracer     trace.Tracer
}

// NewDiscordRouter creates a new DiscordRouter.
func NewDiscordRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber, tracer trace.Tracer) *DiscordRouter {
	return &DiscordRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		tracer:     tracer,
	}
}

// Configure subscribes every handler to its topic.
func (r *DiscordRouter) Configure(_ context.Context, h discordhandlers.Handlers) error {
	r.logger.Info("Registering discord module handlers")

	registerHandler(r, events.ClubCreatedV1, h.HandleClubCreated)
	registerHandler(r, events.ClubRenamedV1, h.HandleClubRenamed)
	registerHandler(r, events.ClubDeletedV1, h.HandleClubDeleted)
	registerHandler(r, events.PlayerCreatedV1, h.HandlePlayerCreated)
	registerHandler(r, events.PlayerTransferredV1, h.HandlePlayerTransferred)
	registerHandler(r, events.MatchScheduledV1, h.HandleMatchScheduled)
	registerHandler(r, events.MatchCancelledV1, h.HandleMatchCancelled)
	registerHandler(r, events.MatchReminderDueV1, h.HandleMatchReminderDue)

	r.logger.Info("Discord module handlers registered successfully")
	return nil
}

func registerHandler[T any](r *DiscordRouter, topic string, handler func(context.Context, *T) error) {
	handlerName := "discord." + topic
	r.router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.subscriber,
		handlerwrapper.WrapTyped(handlerName, r.logger, r.tracer, handler),
	)
}
