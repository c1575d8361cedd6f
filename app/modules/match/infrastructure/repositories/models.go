package matchdb

import (
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/uptrace/bun"
)

// Match is a fixture between two clubs. Reminded flips false to true once,
// when the reminder poller claims it. Cancelling deletes the row.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID          int64                 `bun:"id,pk,autoincrement" json:"id"`
	GuildID     sharedtypes.GuildID   `bun:"guild_id,notnull" json:"guild_id"`
	Team1ID     int64                 `bun:"team1_id,notnull" json:"team1_id"`
	Team2ID     int64                 `bun:"team2_id,notnull" json:"team2_id"`
	ScheduledAt time.Time             `bun:"scheduled_at,notnull" json:"scheduled_at"`
	CreatedBy   sharedtypes.DiscordID `bun:"created_by,notnull" json:"created_by"`
	Reminded    bool                  `bun:"reminded,notnull,default:false" json:"reminded"`
	CreatedAt   time.Time             `bun:"created_at,notnull" json:"created_at"`
}

// Involves reports whether the club plays in the match.
func (m *Match) Involves(clubID int64) bool {
	return m.Team1ID == clubID || m.Team2ID == clubID
}
