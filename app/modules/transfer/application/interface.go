package transferservice

import (
	"context"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
)

// Service moves players between clubs and keeps the budget ledger.
type Service interface {
	Transfer(ctx context.Context, req Request) (*Receipt, error)
	ListTransfers(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]transferdb.TransferView, error)
	ListPlayerHistory(ctx context.Context, guildID sharedtypes.GuildID, playerID int64) ([]transferdb.TransferView, error)
}

// Request moves PlayerID to ToClubID. A nil ToClubID releases the player to
// free agency.
type Request struct {
	GuildID  sharedtypes.GuildID
	PlayerID int64
	ToClubID *int64
	Fee      decimal.Decimal
}

// Receipt is the committed outcome. Club snapshots carry post-transfer budgets.
type Receipt struct {
	Transfer   transferdb.Transfer
	PlayerName string
	FromClub   *clubdb.Club
	ToClub     *clubdb.Club
}
