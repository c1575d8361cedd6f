package discordservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/events"
	discordgateway "github.com/Black-And-White-Club/league-bot/app/modules/discord/infrastructure/gateway"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
)

// RoleSyncService implements RoleSync.
type RoleSyncService struct {
	roles   discordgateway.RoleClient
	emitter *events.Emitter
	logger  *slog.Logger
}

// NewRoleSyncService creates a RoleSyncService. Roles it creates are reported
// back on ClubRoleSyncedV1 so the club module can store them.
func NewRoleSyncService(roles discordgateway.RoleClient, emitter *events.Emitter, logger *slog.Logger) *RoleSyncService {
	return &RoleSyncService{roles: roles, emitter: emitter, logger: logger}
}

func (s *RoleSyncService) SyncClubCreated(ctx context.Context, p *events.ClubCreatedPayloadV1) error {
	return s.ensure(ctx, p.GuildID, p.ClubID, p.Name)
}

func (s *RoleSyncService) ensure(ctx context.Context, guildID sharedtypes.GuildID, clubID int64, name string) error {
	roleID, err := s.roles.EnsureRole(ctx, guildID, name)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sync club role",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(string(guildID)),
			attr.Int64("club_id", clubID),
			attr.Error(err),
		)
		return err
	}
	s.emitter.Emit(ctx, events.ClubRoleSyncedV1, string(guildID), events.ClubRoleSyncedPayloadV1{
		GuildID: guildID,
		ClubID:  clubID,
		RoleID:  roleID,
	})
	return nil
}

// SyncClubRenamed renames the club's role, or creates one if the club never got it.
func (s *RoleSyncService) SyncClubRenamed(ctx context.Context, p *events.ClubRenamedPayloadV1) error {
	if p.RoleID == nil {
		return s.ensure(ctx, p.GuildID, p.ClubID, p.NewName)
	}
	return s.roles.RenameRole(ctx, p.GuildID, *p.RoleID, p.NewName)
}

func (s *RoleSyncService) SyncClubDeleted(ctx context.Context, p *events.ClubDeletedPayloadV1) error {
	if p.RoleID == nil {
		return nil
	}
	return s.roles.DeleteRole(ctx, p.GuildID, *p.RoleID)
}

func (s *RoleSyncService) SyncPlayerCreated(ctx context.Context, p *events.PlayerCreatedPayloadV1) error {
	if p.UserID == nil || p.ClubRoleID == nil {
		return nil
	}
	return s.roles.AddMemberRole(ctx, p.GuildID, *p.UserID, *p.ClubRoleID)
}

// SyncPlayerTransferred moves the member from the old club role to the new one.
// Both steps run even if one fails.
func (s *RoleSyncService) SyncPlayerTransferred(ctx context.Context, p *events.PlayerTransferredPayloadV1) error {
	if p.UserID == nil {
		return nil
	}
	var errs []error
	if p.FromRoleID != nil {
		errs = append(errs, s.roles.RemoveMemberRole(ctx, p.GuildID, *p.UserID, *p.FromRoleID))
	}
	if p.ToRoleID != nil {
		errs = append(errs, s.roles.AddMemberRole(ctx, p.GuildID, *p.UserID, *p.ToRoleID))
	}
	return errors.Join(errs...)
}

var _ RoleSync = (*RoleSyncService)(nil)
