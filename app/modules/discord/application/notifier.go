package discordservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/events"
	discordgateway "github.com/Black-And-White-Club/league-bot/app/modules/discord/infrastructure/gateway"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

// Embed colors.
const (
	ColorScheduled = 0x2ecc71
	ColorCancelled = 0xe74c3c
	ColorReminder  = 0xf1c40f
)

// NotifierService implements Notifier.
type NotifierService struct {
	channels discordgateway.ChannelClient
	settings SettingsReader
	logger   *slog.Logger
}

// NewNotifierService creates a NotifierService.
func NewNotifierService(channels discordgateway.ChannelClient, settings SettingsReader, logger *slog.Logger) *NotifierService {
	return &NotifierService{channels: channels, settings: settings, logger: logger}
}

func (s *NotifierService) NotifyMatchScheduled(ctx context.Context, p *events.MatchPayloadV1) error {
	return s.send(ctx, p, &discordgo.MessageEmbed{
		Title:       "Match scheduled",
		Description: fmt.Sprintf("%s vs %s\nKickoff %s", mention(p.Team1Name, p.Team1RoleID), mention(p.Team2Name, p.Team2RoleID), kickoff(p.ScheduledAt, "F")),
		Color:       ColorScheduled,
	})
}

func (s *NotifierService) NotifyMatchCancelled(ctx context.Context, p *events.MatchPayloadV1) error {
	return s.send(ctx, p, &discordgo.MessageEmbed{
		Title:       "Match cancelled",
		Description: fmt.Sprintf("%s vs %s on %s will not be played", mention(p.Team1Name, p.Team1RoleID), mention(p.Team2Name, p.Team2RoleID), kickoff(p.ScheduledAt, "F")),
		Color:       ColorCancelled,
	})
}

func (s *NotifierService) NotifyMatchReminder(ctx context.Context, p *events.MatchPayloadV1) error {
	return s.send(ctx, p, &discordgo.MessageEmbed{
		Title:       "Match reminder",
		Description: fmt.Sprintf("Match starting %s!\n%s vs %s", kickoff(p.ScheduledAt, "R"), mention(p.Team1Name, p.Team1RoleID), mention(p.Team2Name, p.Team2RoleID)),
		Color:       ColorReminder,
	})
}

// send posts embed to the guild's notification channel. Guilds without one
// are skipped.
func (s *NotifierService) send(ctx context.Context, p *events.MatchPayloadV1, embed *discordgo.MessageEmbed) error {
	settings, err := s.settings.GetSettings(ctx, p.GuildID)
	if err != nil {
		return fmt.Errorf("failed to read notification channel: %w: %w", domainerr.ErrExternalSync, err)
	}
	if settings.NotificationChannelID == nil {
		s.logger.InfoContext(ctx, "No notification channel configured, skipping",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(string(p.GuildID)),
			attr.Int64("match_id", p.MatchID),
			attr.String("title", embed.Title),
		)
		return nil
	}

	embed.Timestamp = p.ScheduledAt.UTC().Format(time.RFC3339)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Match #%d", p.MatchID)}
	return s.channels.SendEmbed(ctx, *settings.NotificationChannelID, embed)
}

// mention renders a club as its role mention, or its bold name without a role.
func mention(name string, roleID *sharedtypes.RoleID) string {
	if roleID != nil {
		return fmt.Sprintf("<@&%s>", *roleID)
	}
	return "**" + name + "**"
}

// kickoff renders t as a Discord timestamp in the given style.
func kickoff(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

var _ Notifier = (*NotifierService)(nil)
