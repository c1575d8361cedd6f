package transferdb

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/uptrace/bun"
)

// Repository defines the contract for transfer history persistence.
type Repository interface {
	// Create appends a ledger entry.
	Create(ctx context.Context, db bun.IDB, transfer *Transfer) error

	// ListRecent returns the latest transfers of the guild, newest first.
	ListRecent(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, limit int) ([]TransferView, error)

	// ListByPlayer returns a player's transfers, oldest first.
	ListByPlayer(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, playerID int64) ([]TransferView, error)

	// ListByGuild returns every raw ledger entry of the guild, oldest first.
	ListByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Transfer, error)

	DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}
