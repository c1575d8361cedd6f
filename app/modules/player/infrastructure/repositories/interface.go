package playerdb

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Repository defines the contract for player persistence.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Player, error)

	// GetByIDForUpdate is GetByID holding a row lock until the transaction ends.
	GetByIDForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Player, error)

	GetByName(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*Player, error)

	// List returns every player of the guild, most valuable first.
	List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Player, error)

	ListByClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]Player, error)

	ListFreeAgents(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Player, error)

	// Create inserts a player. Returns ErrDuplicateName if the name is taken.
	Create(ctx context.Context, db bun.IDB, player *Player) error

	UpdateValue(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, value decimal.Decimal) error

	LinkUser(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, userID *sharedtypes.DiscordID) error

	// MoveToClub sets club_id to `to` only while it still equals `from`.
	// Returns ErrClubChanged if another transaction moved the player first.
	MoveToClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, from, to *int64) error

	// ReleaseClub makes every player of the club a free agent and returns
	// the Discord users linked to them.
	ReleaseClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]sharedtypes.DiscordID, error)

	Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error

	DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
