package discordservice

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/events"
	guilddb "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
)

// RoleSync mirrors club membership onto Discord roles.
type RoleSync interface {
	SyncClubCreated(ctx context.Context, payload *events.ClubCreatedPayloadV1) error
	SyncClubRenamed(ctx context.Context, payload *events.ClubRenamedPayloadV1) error
	SyncClubDeleted(ctx context.Context, payload *events.ClubDeletedPayloadV1) error
	SyncPlayerCreated(ctx context.Context, payload *events.PlayerCreatedPayloadV1) error
	SyncPlayerTransferred(ctx context.Context, payload *events.PlayerTransferredPayloadV1) error
}

// Notifier posts match announcements to a guild's notification channel.
type Notifier interface {
	NotifyMatchScheduled(ctx context.Context, payload *events.MatchPayloadV1) error
	NotifyMatchCancelled(ctx context.Context, payload *events.MatchPayloadV1) error
	NotifyMatchReminder(ctx context.Context, payload *events.MatchPayloadV1) error
}

// SettingsReader resolves where a guild wants its announcements.
type SettingsReader interface {
	GetSettings(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.Settings, error)
}
