package guilddb

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/uptrace/bun"
)

// UpdateFields represents the updateable fields of guild settings.
// Pointer fields distinguish "not provided" (nil) from "set to zero value";
// an empty string clears a role or channel.
type UpdateFields struct {
	AdminRoleID           *string
	NotificationChannelID *string
	Timezone              *string
	// Config entries are merged into the stored map; an empty value removes the key.
	Config map[string]string
}

// IsEmpty reports whether any fields are set for update.
func (u *UpdateFields) IsEmpty() bool {
	if u == nil {
		return true
	}
	return u.AdminRoleID == nil &&
		u.NotificationChannelID == nil &&
		u.Timezone == nil &&
		len(u.Config) == 0
}

// Repository defines the contract for guild settings persistence.
//
// Error semantics:
//   - ErrNotFound: no settings row for the guild
//   - Other errors: infrastructure failures
type Repository interface {
	// GetSettings retrieves the guild's settings.
	GetSettings(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*Settings, error)

	// SaveSettings inserts or replaces the guild's settings row.
	SaveSettings(ctx context.Context, db bun.IDB, settings *Settings) error

	// DeleteSettings removes the guild's settings and returns how many rows went.
	DeleteSettings(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
