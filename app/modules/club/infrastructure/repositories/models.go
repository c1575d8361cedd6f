package clubdb

import (
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Club is a team inside one guild. Names are unique per guild.
type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:c"`

	ID        int64               `bun:"id,pk,autoincrement" json:"id"`
	GuildID   sharedtypes.GuildID `bun:"guild_id,notnull,unique:clubs_guild_id_name" json:"guild_id"`
	Name      string              `bun:"name,notnull,unique:clubs_guild_id_name" json:"name"`
	Budget    decimal.Decimal     `bun:"budget,type:numeric(14,2),notnull" json:"budget"`
	RoleID    *sharedtypes.RoleID `bun:"role_id" json:"role_id,omitempty"`
	CreatedAt time.Time           `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time           `bun:"updated_at,notnull" json:"updated_at"`
}
