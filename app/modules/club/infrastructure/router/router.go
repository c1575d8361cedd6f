package clubrouter

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubhandlers "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/handlers"
	"github.com/Black-And-White-Club/league-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// ClubRouter handles Watermill handler registration for club events.
type ClubRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
	tracer     trace.Tracer
}

// NewClubRouter creates a new ClubRouter.
func NewClubRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber, tracer trace.Tracer) *ClubRouter {
	return &ClubRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		tracer:     tracer,
	}
}

// Configure sets up the router with handlers.
func (r *ClubRouter) Configure(_ context.Context, handlers clubhandlers.Handlers) error {
	r.logger.Info("Registering club module handlers",
		slog.String("role_synced_subject", events.ClubRoleSyncedV1),
	)

	registerHandler(r, events.ClubRoleSyncedV1, handlers.HandleClubRoleSynced)

	r.logger.Info("Club module handlers registered successfully")
	return nil
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](r *ClubRouter, topic string, handler func(context.Context, *T) error) {
	handlerName := "club." + topic
	r.router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.subscriber,
		handlerwrapper.WrapTyped(handlerName, r.logger, r.tracer, handler),
	)
}
