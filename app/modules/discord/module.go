package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/league-bot/app/events"
	discordservice "github.com/Black-And-White-Club/league-bot/app/modules/discord/application"
	discordgateway "github.com/Black-And-White-Club/league-bot/app/modules/discord/infrastructure/gateway"
	discordhandlers "github.com/Black-And-White-Club/league-bot/app/modules/discord/infrastructure/handlers"
	discordrouter "github.com/Black-And-White-Club/league-bot/app/modules/discord/infrastructure/router"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
)

// Module represents the discord module. With Discord disabled it registers
// no subscribers and league events go unmirrored.
type Module struct {
	Supervisor    *discordgateway.Supervisor
	RoleSync      discordservice.RoleSync
	Notifier      discordservice.Notifier
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewDiscordModule creates the Discord session, its throttled client and the
// subscribers that mirror league events.
func NewDiscordModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	settings discordservice.SettingsReader,
	publisher message.Publisher,
	subscriber message.Subscriber,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	m := &Module{observability: obs}

	if !cfg.Discord.Enabled {
		logger.InfoContext(ctx, "Discord disabled, role sync and notifications are off")
		return m, nil
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	m.Supervisor = discordgateway.NewSupervisor(session, discordgateway.SupervisorConfig{
		MaxAttempts: cfg.Discord.MaxReconnectAttempts,
		BaseDelay:   cfg.Discord.ReconnectBaseDelay,
	}, logger)
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Connect) { m.Supervisor.SetConnected(true) })
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) { m.Supervisor.SetConnected(false) })

	client := discordgateway.NewThrottledRoleClient(discordgateway.NewClient(session), discordgateway.ThrottleConfig{
		MinDelay:       cfg.RoleSync.MinDelay,
		MaxRetries:     cfg.RoleSync.MaxRetries,
		InitialBackoff: cfg.RoleSync.InitialBackoff,
	}, logger)

	m.RoleSync = discordservice.NewRoleSyncService(client, events.NewEmitter(publisher, logger), logger)
	m.Notifier = discordservice.NewNotifierService(client, settings, logger)

	handlers := discordhandlers.NewDiscordHandlers(m.RoleSync, m.Notifier, logger)
	if err := discordrouter.NewDiscordRouter(logger, router, subscriber, obs.Registry.Tracer).Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure discord router: %w", err)
	}
	return m, nil
}

// Connected reports whether the Discord gateway is up.
func (m *Module) Connected() bool {
	return m.Supervisor != nil && m.Supervisor.Connected()
}

// Run opens the Discord session and keeps it until ctx ends.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.Supervisor != nil {
		logger.InfoContext(ctx, "Starting discord module")
		if err := m.Supervisor.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Discord session unavailable", attr.Error(err))
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Discord module goroutine stopped")
}

// Close closes the Discord session.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Stopping discord module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if m.Supervisor != nil {
		return m.Supervisor.Stop()
	}
	return nil
}
