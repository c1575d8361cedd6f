package clubdb

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Repository defines the contract for club persistence.
// Every method takes the transaction handle to run on; nil uses the default connection.
type Repository interface {
	// GetByID retrieves a club of the guild by id.
	GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Club, error)

	// GetByName retrieves a club of the guild by exact name.
	GetByName(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*Club, error)

	// GetByIDs retrieves several clubs at once, keyed by id.
	GetByIDs(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*Club, error)
	// GetByIDsForUpdate is GetByIDs holding row locks, taken in ascending id
	// order so concurrent callers never wait on each other in a cycle.
	GetByIDsForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*Club, error)

	// List returns every club of the guild ordered by name.
	List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Club, error)

	// Create inserts a club. Returns ErrDuplicateName if the name is taken.
	Create(ctx context.Context, db bun.IDB, club *Club) error

	// UpdateBudget overwrites a club's budget.
	UpdateBudget(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, budget decimal.Decimal) error

	// Rename changes a club's name. Returns ErrDuplicateName if the name is taken.
	Rename(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, name string) error

	// SetRoleID stores the Discord role mirroring the club.
	SetRoleID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, roleID *sharedtypes.RoleID) error

	// Debit subtracts amount only if the budget covers it.
	// Returns ErrInsufficientBudget when it does not.
	Debit(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error

	// Credit adds amount to the budget.
	Credit(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error

	// Delete removes a club.
	Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error

	// DeleteByGuild removes every club of the guild and returns how many.
	DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
