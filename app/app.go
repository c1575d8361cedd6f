package app

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/league-bot/app/eventbus"
	"github.com/Black-And-White-Club/league-bot/app/httpserver"
	"github.com/Black-And-White-Club/league-bot/app/modules/club"
	"github.com/Black-And-White-Club/league-bot/app/modules/discord"
	"github.com/Black-And-White-Club/league-bot/app/modules/guild"
	guildservice "github.com/Black-And-White-Club/league-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/modules/match"
	"github.com/Black-And-White-Club/league-bot/app/modules/player"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/modules/stats"
	statsservice "github.com/Black-And-White-Club/league-bot/app/modules/stats/application"
	"github.com/Black-And-White-Club/league-bot/app/modules/transfer"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/Black-And-White-Club/league-bot/db/bundb"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// App holds the process wide resources and every league module.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Modules       *Modules
	server        *httpserver.Server
}

// Modules groups the league modules in construction order.
type Modules struct {
	Club     *club.Module
	Player   *player.Module
	Transfer *transfer.Module
	Match    *match.Module
	Guild    *guild.Module
	Stats    *stats.Module
	Discord  *discord.Module
}

// NewApp opens the store, applies migrations and builds every module.
// Nothing runs until Start.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Provider.Logger

	db, err := bundb.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := bundb.Migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.EventBus, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	router, err := eventbus.NewRouter(logger)
	if err != nil {
		bus.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		Router:        router,
	}
	if err := app.initializeModules(ctx); err != nil {
		app.Close()
		return nil, err
	}

	handler := httpserver.NewRouter(cfg.HTTP, app.Modules.Discord.Connected, obs.Provider.Prometheus, nil)
	app.server = httpserver.New(cfg.HTTP, handler, logger)

	logger.InfoContext(ctx, "Application initialized",
		attr.String("database", cfg.Database.Driver),
		attr.String("eventbus", cfg.EventBus.Driver),
		attr.Bool("discord", cfg.Discord.Enabled),
	)
	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	obs := app.Observability
	players := playerdb.NewRepository(app.DB)

	clubModule, err := club.NewClubModule(ctx, obs, app.DB, players, app.EventBus, app.EventBus, app.Router)
	if err != nil {
		return fmt.Errorf("failed to initialize club module: %w", err)
	}
	playerModule := player.NewPlayerModule(ctx, obs, app.DB, players, clubModule.Repository, app.EventBus)
	transferModule := transfer.NewTransferModule(ctx, obs, app.DB, players, clubModule.Repository, app.EventBus)

	matchModule, err := match.NewMatchModule(ctx, app.Config, obs, app.DB, clubModule.Repository, app.EventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize match module: %w", err)
	}

	guildModule := guild.NewGuildModule(ctx, obs, app.DB, guildservice.Repositories{
		Settings:  guilddb.NewRepository(app.DB),
		Clubs:     clubModule.Repository,
		Players:   players,
		Transfers: transferModule.Repository,
		Matches:   matchModule.Repository,
	}, app.EventBus)

	statsModule := stats.NewStatsModule(ctx, obs, app.DB, statsservice.Repositories{
		Clubs:     clubModule.Repository,
		Players:   players,
		Transfers: transferModule.Repository,
		Matches:   matchModule.Repository,
	})

	discordModule, err := discord.NewDiscordModule(ctx, app.Config, obs, guildModule.GuildService, app.EventBus, app.EventBus, app.Router)
	if err != nil {
		return fmt.Errorf("failed to initialize discord module: %w", err)
	}

	app.Modules = &Modules{
		Club:     clubModule,
		Player:   playerModule,
		Transfer: transferModule,
		Match:    matchModule,
		Guild:    guildModule,
		Stats:    statsModule,
		Discord:  discordModule,
	}
	return nil
}

// Close releases modules, the event bus and the database. It is safe to call
// on a partially initialized App.
func (app *App) Close() {
	logger := app.Observability.Provider.Logger

	if m := app.Modules; m != nil {
		closers := map[string]interface{ Close() error }{
			"club":    m.Club,
			"player":  m.Player,
			"match":   m.Match,
			"guild":   m.Guild,
			"discord": m.Discord,
		}
		for name, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("Error closing module", attr.String("module", name), attr.Error(err))
			}
		}
	}
	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			logger.Error("Error closing router", attr.Error(err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Error closing event bus", attr.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Error closing database", attr.Error(err))
		}
	}
}
