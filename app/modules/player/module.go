package player

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/league-bot/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the player module.
type Module struct {
	PlayerService playerservice.Service
	Repository    playerdb.Repository
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewPlayerModule creates the player module. The player repository is built
// by the caller because the club module releases rosters through it.
func NewPlayerModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	repo playerdb.Repository,
	clubs clubdb.Repository,
	publisher message.Publisher,
) *Module {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "player.NewPlayerModule initializing")

	service := playerservice.NewPlayerService(
		repo,
		clubs,
		events.NewEmitter(publisher, logger),
		logger,
		obs.Registry.Metrics,
		obs.Registry.Tracer,
		db,
	)

	return &Module{
		PlayerService: service,
		Repository:    repo,
		observability: obs,
	}
}

// Run blocks until ctx is cancelled. The player module has no subscribers.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()
	if wg != nil {
		defer wg.Done()
	}
	<-ctx.Done()
}

// Close shuts down the player module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
