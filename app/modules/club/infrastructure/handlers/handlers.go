package clubhandlers

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubservice "github.com/Black-And-White-Club/league-bot/app/modules/club/application"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
)

// ClubHandlers implements the Handlers interface.
type ClubHandlers struct {
	service clubservice.Service
	logger  *slog.Logger
}

// NewClubHandlers creates a new ClubHandlers instance.
func NewClubHandlers(service clubservice.Service, logger *slog.Logger) Handlers {
	return &ClubHandlers{service: service, logger: logger}
}

// HandleClubRoleSynced stores the Discord role created for a club.
func (h *ClubHandlers) HandleClubRoleSynced(ctx context.Context, payload *events.ClubRoleSyncedPayloadV1) error {
	h.logger.InfoContext(ctx, "Club role synced",
		attr.ExtractCorrelationID(ctx),
		attr.GuildID(string(payload.GuildID)),
		attr.Int64("club_id", payload.ClubID),
		attr.String("role_id", string(payload.RoleID)),
	)
	roleID := payload.RoleID
	return h.service.SetRoleID(ctx, payload.GuildID, payload.ClubID, &roleID)
}
