package playerservice

import (
	"context"

	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
)

// Service defines the interface for player operations. A player's club only
// changes through the transfer service.
type Service interface {
	CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*playerdb.Player, error)
	GetPlayer(ctx context.Context, guildID sharedtypes.GuildID, playerID int64) (*playerdb.Player, error)
	GetPlayerByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (*playerdb.Player, error)
	ListPlayers(ctx context.Context, guildID sharedtypes.GuildID) ([]playerdb.Player, error)
	ListByClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) ([]playerdb.Player, error)
	ListFreeAgents(ctx context.Context, guildID sharedtypes.GuildID) ([]playerdb.Player, error)
	UpdateValue(ctx context.Context, guildID sharedtypes.GuildID, playerID int64, value decimal.Decimal) (*playerdb.Player, error)
	LinkUser(ctx context.Context, guildID sharedtypes.GuildID, playerID int64, userID *sharedtypes.DiscordID) error
	DeletePlayer(ctx context.Context, guildID sharedtypes.GuildID, playerID int64) error
}

// CreatePlayerRequest carries the fields of a new player. Zero Position and
// Age fall back to the defaults.
type CreatePlayerRequest struct {
	GuildID  sharedtypes.GuildID
	Name     string
	Value    decimal.Decimal
	ClubID   *int64
	Position string
	Age      int
	UserID   *sharedtypes.DiscordID
}
