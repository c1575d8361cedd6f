package playerdb

import (
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Player belongs to at most one club. A nil ClubID marks a free agent.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID        int64                  `bun:"id,pk,autoincrement" json:"id"`
	GuildID   sharedtypes.GuildID    `bun:"guild_id,notnull,unique:players_guild_id_name" json:"guild_id"`
	Name      string                 `bun:"name,notnull,unique:players_guild_id_name" json:"name"`
	Value     decimal.Decimal        `bun:"value,type:numeric(14,2),notnull" json:"value"`
	ClubID    *int64                 `bun:"club_id" json:"club_id,omitempty"`
	Position  string                 `bun:"position,notnull" json:"position"`
	Age       int                    `bun:"age,notnull" json:"age"`
	UserID    *sharedtypes.DiscordID `bun:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time              `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time              `bun:"updated_at,notnull" json:"updated_at"`
}

// IsFreeAgent reports whether the player has no club.
func (p *Player) IsFreeAgent() bool {
	return p.ClubID == nil
}
