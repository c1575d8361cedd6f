package discordhandlers

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/events"
)

// Handlers consumes the league events mirrored on Discord.
type Handlers interface {
	HandleClubCreated(ctx context.Context, payload *events.ClubCreatedPayloadV1) error
	HandleClubRenamed(ctx context.Context, payload *events.ClubRenamedPayloadV1) error
	HandleClubDeleted(ctx context.Context, payload *events.ClubDeletedPayloadV1) error
	HandlePlayerCreated(ctx context.Context, payload *events.PlayerCreatedPayloadV1) error
	HandlePlayerTransferred(ctx context.Context, payload *events.PlayerTransferredPayloadV1) error
	HandleMatchScheduled(ctx context.Context, payload *events.MatchPayloadV1) error
	HandleMatchCancelled(ctx context.Context, payload *events.MatchPayloadV1) error
	HandleMatchReminderDue(ctx context.Context, payload *events.MatchPayloadV1) error
}
