package club

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubservice "github.com/Black-And-White-Club/league-bot/app/modules/club/application"
	clubhandlers "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/handlers"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	clubrouter "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/router"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the club module.
type Module struct {
	ClubService   clubservice.Service
	Repository    clubdb.Repository
	ClubRouter    *clubrouter.ClubRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewClubModule creates and initializes a new club module.
func NewClubModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	roster clubservice.RosterReleaser,
	publisher message.Publisher,
	subscriber message.Subscriber,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "club.NewClubModule initializing")

	repo := clubdb.NewRepository(db)
	service := clubservice.NewClubService(
		repo,
		roster,
		events.NewEmitter(publisher, logger),
		logger,
		obs.Registry.Metrics,
		tracer,
		db,
	)

	handlers := clubhandlers.NewClubHandlers(service, logger)
	clubRouter := clubrouter.NewClubRouter(logger, router, subscriber, tracer)
	if err := clubRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure club router: %w", err)
	}

	return &Module{
		ClubService:   service,
		Repository:    repo,
		ClubRouter:    clubRouter,
		observability: obs,
	}, nil
}

// Run starts the club module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting club module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Club module goroutine stopped")
}

// Close shuts down the club module.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Stopping club module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
