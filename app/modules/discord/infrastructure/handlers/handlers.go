package discordhandlers

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/events"
	discordservice "github.com/Black-And-White-Club/league-bot/app/modules/discord/application"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
)

// DiscordHandlers implements the Handlers interface.
type DiscordHandlers struct {
	roles    discordservice.RoleSync
	notifier discordservice.Notifier
	logger   *slog.Logger
}

// NewDiscordHandlers creates a new DiscordHandlers instance.
func NewDiscordHandlers(roles discordservice.RoleSync, notifier discordservice.Notifier, logger *slog.Logger) Handlers {
	return &DiscordHandlers{roles: roles, notifier: notifier, logger: logger}
}

func (h *DiscordHandlers) received(ctx context.Context, event string, guildID string, attrs ...any) {
	h.logger.InfoContext(ctx, "Received "+event,
		append([]any{attr.ExtractCorrelationID(ctx), attr.GuildID(guildID)}, attrs...)...,
	)
}

func (h *DiscordHandlers) HandleClubCreated(ctx context.Context, p *events.ClubCreatedPayloadV1) error {
	h.received(ctx, "ClubCreated", string(p.GuildID), attr.Int64("club_id", p.ClubID))
	return h.roles.SyncClubCreated(ctx, p)
}

func (h *DiscordHandlers) HandleClubRenamed(ctx context.Context, p *events.ClubRenamedPayloadV1) error {
	h.received(ctx, "ClubRenamed", string(p.GuildID), attr.Int64("club_id", p.ClubID))
	return h.roles.SyncClubRenamed(ctx, p)
}

func (h *DiscordHandlers) HandleClubDeleted(ctx context.Context, p *events.ClubDeletedPayloadV1) error {
	h.received(ctx, "ClubDeleted", string(p.GuildID), attr.Int64("club_id", p.ClubID))
	return h.roles.SyncClubDeleted(ctx, p)
}

func (h *DiscordHandlers) HandlePlayerCreated(ctx context.Context, p *events.PlayerCreatedPayloadV1) error {
	h.received(ctx, "PlayerCreated", string(p.GuildID), attr.Int64("player_id", p.PlayerID))
	return h.roles.SyncPlayerCreated(ctx, p)
}

func (h *DiscordHandlers) HandlePlayerTransferred(ctx context.Context, p *events.PlayerTransferredPayloadV1) error {
	h.received(ctx, "PlayerTransferred", string(p.GuildID),
		attr.Int64("player_id", p.PlayerID),
		attr.Int64("transfer_id", p.TransferID),
	)
	return h.roles.SyncPlayerTransferred(ctx, p)
}

func (h *DiscordHandlers) HandleMatchScheduled(ctx context.Context, p *events.MatchPayloadV1) error {
	h.received(ctx, "MatchScheduled", string(p.GuildID), attr.Int64("match_id", p.MatchID))
	return h.notifier.NotifyMatchScheduled(ctx, p)
}

func (h *DiscordHandlers) HandleMatchCancelled(ctx context.Context, p *events.MatchPayloadV1) error {
	h.received(ctx, "MatchCancelled", string(p.GuildID), attr.Int64("match_id", p.MatchID))
	return h.notifier.NotifyMatchCancelled(ctx, p)
}

func (h *DiscordHandlers) HandleMatchReminderDue(ctx context.Context, p *events.MatchPayloadV1) error {
	h.received(ctx, "MatchReminderDue", string(p.GuildID), attr.Int64("match_id", p.MatchID))
	return h.notifier.NotifyMatchReminder(ctx, p)
}
