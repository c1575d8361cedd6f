package guilddb

import (
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/uptrace/bun"
)

// Settings holds a guild's league configuration. One row per guild.
type Settings struct {
	bun.BaseModel `bun:"table:guild_settings,alias:gs"`

	GuildID               sharedtypes.GuildID    `bun:"guild_id,pk,notnull,type:varchar(20)" json:"guild_id"`
	AdminRoleID           *sharedtypes.RoleID    `bun:"admin_role_id,type:varchar(20)" json:"admin_role_id,omitempty"`
	NotificationChannelID *sharedtypes.ChannelID `bun:"notification_channel_id,type:varchar(20)" json:"notification_channel_id,omitempty"`
	// Timezone is an IANA name used to read kickoff times typed by members.
	Timezone  string            `bun:"timezone,notnull,default:'UTC'" json:"timezone"`
	Config    map[string]string `bun:"config,type:jsonb" json:"config,omitempty"`
	CreatedAt time.Time         `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time         `bun:"updated_at,notnull" json:"updated_at"`
}

// Location resolves Timezone, falling back to UTC.
func (s *Settings) Location() *time.Location {
	if s == nil || s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
