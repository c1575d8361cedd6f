package guild

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/league-bot/app/events"
	guildservice "github.com/Black-And-White-Club/league-bot/app/modules/guild/application"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the guild module.
type Module struct {
	GuildService  guildservice.Service
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewGuildModule creates a new instance of the guild module. The guild
// service reads and clears every other module's tables, so the caller
// hands over the repositories those modules own.
func NewGuildModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	repos guildservice.Repositories,
	publisher message.Publisher,
) *Module {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "guild.NewGuildModule called")

	service := guildservice.NewGuildService(
		repos,
		events.NewEmitter(publisher, logger),
		logger,
		obs.Registry.Metrics,
		obs.Registry.Tracer,
		db,
	)

	return &Module{
		GuildService:  service,
		observability: obs,
	}
}

// Run starts the guild module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting guild module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Guild module goroutine stopped")
}

// Close stops the guild module.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Stopping guild module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
