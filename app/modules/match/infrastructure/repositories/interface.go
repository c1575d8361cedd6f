package matchdb

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/uptrace/bun"
)

// Repository defines the contract for match persistence.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, match *Match) error

	GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Match, error)

	Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error

	// List returns the guild's matches by kickoff. A non-nil after keeps only
	// matches kicking off later than it.
	List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, after *time.Time) ([]Match, error)

	// FindNextBetween returns the earliest match after `after` between the two
	// clubs, in either order.
	FindNextBetween(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubA, clubB int64, after time.Time) (*Match, error)

	// ListBetweenTimes returns the guild's matches with from < scheduled_at <= to.
	// Reminded is left untouched.
	ListBetweenTimes(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, from, to time.Time) ([]Match, error)

	// ClaimDue flips reminded on every unreminded match, across guilds, with
	// from < scheduled_at <= to and returns the rows it flipped. A match is
	// returned by at most one caller.
	ClaimDue(ctx context.Context, db bun.IDB, from, to time.Time) ([]Match, error)

	// ListByGuild returns every match of the guild, oldest first.
	ListByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Match, error)

	DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
