package transferdb

import (
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Transfer is an append-only ledger entry. A nil club id stands for free agency.
type Transfer struct {
	bun.BaseModel `bun:"table:transfers,alias:t"`

	ID            int64               `bun:"id,pk,autoincrement" json:"id"`
	GuildID       sharedtypes.GuildID `bun:"guild_id,notnull" json:"guild_id"`
	PlayerID      int64               `bun:"player_id,notnull" json:"player_id"`
	FromClubID    *int64              `bun:"from_club_id" json:"from_club_id,omitempty"`
	ToClubID      *int64              `bun:"to_club_id" json:"to_club_id,omitempty"`
	Fee           decimal.Decimal     `bun:"fee,type:numeric(14,2),notnull" json:"fee"`
	TransferredAt time.Time           `bun:"transferred_at,notnull" json:"transferred_at"`
}

// TransferView is a transfer joined with the names it refers to. Names are
// nil when the player or club has since been deleted.
type TransferView struct {
	ID            int64           `bun:"id"`
	PlayerID      int64           `bun:"player_id"`
	PlayerName    *string         `bun:"player_name"`
	FromClubID    *int64          `bun:"from_club_id"`
	FromClubName  *string         `bun:"from_club_name"`
	ToClubID      *int64          `bun:"to_club_id"`
	ToClubName    *string         `bun:"to_club_name"`
	Fee           decimal.Decimal `bun:"fee"`
	TransferredAt time.Time       `bun:"transferred_at"`
}
