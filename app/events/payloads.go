package events

import (
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
)

// ClubCreatedPayloadV1 asks role sync to create or reuse a role named after the club.
type ClubCreatedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	ClubID  int64               `json:"club_id"`
	Name    string              `json:"name"`
}

type ClubRenamedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	ClubID  int64               `json:"club_id"`
	OldName string              `json:"old_name"`
	NewName string              `json:"new_name"`
	RoleID  *sharedtypes.RoleID `json:"role_id,omitempty"`
}

type ClubDeletedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	ClubID  int64               `json:"club_id"`
	Name    string              `json:"name"`
	RoleID  *sharedtypes.RoleID `json:"role_id,omitempty"`
	// Released lists the Discord users whose players became free agents.
	Released []sharedtypes.DiscordID `json:"released,omitempty"`
}

// ClubRoleSyncedPayloadV1 reports the role created or reused for a club.
type ClubRoleSyncedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	ClubID  int64               `json:"club_id"`
	RoleID  sharedtypes.RoleID  `json:"role_id"`
}

type PlayerCreatedPayloadV1 struct {
	GuildID    sharedtypes.GuildID    `json:"guild_id"`
	PlayerID   int64                  `json:"player_id"`
	Name       string                 `json:"name"`
	ClubID     *int64                 `json:"club_id,omitempty"`
	ClubRoleID *sharedtypes.RoleID    `json:"club_role_id,omitempty"`
	UserID     *sharedtypes.DiscordID `json:"user_id,omitempty"`
}

// PlayerTransferredPayloadV1 carries role references resolved at commit time
// so the subscriber never reads the store.
type PlayerTransferredPayloadV1 struct {
	GuildID    sharedtypes.GuildID    `json:"guild_id"`
	TransferID int64                  `json:"transfer_id"`
	PlayerID   int64                  `json:"player_id"`
	PlayerName string                 `json:"player_name"`
	UserID     *sharedtypes.DiscordID `json:"user_id,omitempty"`
	FromClubID *int64                 `json:"from_club_id,omitempty"`
	FromRoleID *sharedtypes.RoleID    `json:"from_role_id,omitempty"`
	ToClubID   *int64                 `json:"to_club_id,omitempty"`
	ToRoleID   *sharedtypes.RoleID    `json:"to_role_id,omitempty"`
	Fee        decimal.Decimal        `json:"fee"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// MatchPayloadV1 describes a match for scheduling, cancellation and reminders.
type MatchPayloadV1 struct {
	GuildID     sharedtypes.GuildID   `json:"guild_id"`
	MatchID     int64                 `json:"match_id"`
	Team1ID     int64                 `json:"team1_id"`
	Team1Name   string                `json:"team1_name"`
	Team1RoleID *sharedtypes.RoleID   `json:"team1_role_id,omitempty"`
	Team2ID     int64                 `json:"team2_id"`
	Team2Name   string                `json:"team2_name"`
	Team2RoleID *sharedtypes.RoleID   `json:"team2_role_id,omitempty"`
	ScheduledAt time.Time             `json:"scheduled_at"`
	CreatedBy   sharedtypes.DiscordID `json:"created_by"`
}
