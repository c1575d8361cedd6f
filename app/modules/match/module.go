package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	matchservice "github.com/Black-And-White-Club/league-bot/app/modules/match/application"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	matchscheduler "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/scheduler"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the match module.
type Module struct {
	MatchService  matchservice.Service
	Repository    matchdb.Repository
	Scheduler     matchscheduler.Scheduler
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewMatchModule creates the match module and its reminder scheduler.
func NewMatchModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	clubs clubdb.Repository,
	publisher message.Publisher,
) (*Module, error) {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "match.NewMatchModule initializing")

	repo := matchdb.NewRepository(db)
	service := matchservice.NewMatchService(
		repo,
		clubs,
		events.NewEmitter(publisher, logger),
		logger,
		obs.Registry.Metrics,
		obs.Registry.Tracer,
		db,
	)

	var scheduler matchscheduler.Scheduler
	switch cfg.Scheduler.Driver {
	case "river":
		s, err := matchscheduler.NewRiverScheduler(ctx, cfg.Database.DSN, service, cfg.Scheduler.PollInterval, cfg.Scheduler.ReminderWindow, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create river scheduler: %w", err)
		}
		scheduler = s
	default:
		scheduler = matchscheduler.NewTickerScheduler(service, cfg.Scheduler.PollInterval, cfg.Scheduler.ReminderWindow, logger)
	}

	return &Module{
		MatchService:  service,
		Repository:    repo,
		Scheduler:     scheduler,
		observability: obs,
	}, nil
}

// Run starts the reminder scheduler and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()
	if wg != nil {
		defer wg.Done()
	}

	if err := m.Scheduler.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to start reminder scheduler", attr.Error(err))
		return
	}
	<-ctx.Done()
	logger.InfoContext(ctx, "Match module goroutine stopped")
}

// Close stops the scheduler.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return m.Scheduler.Stop(context.Background())
}
