package clubhandlers

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/events"
)

// Handlers consumes events addressed to the club module.
type Handlers interface {
	HandleClubRoleSynced(ctx context.Context, payload *events.ClubRoleSyncedPayloadV1) error
}
