package clubservice

import (
	"context"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Service defines the interface for club operations.
type Service interface {
	CreateClub(ctx context.Context, guildID sharedtypes.GuildID, name string, budget decimal.Decimal) (*clubdb.Club, error)
	GetClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) (*clubdb.Club, error)
	GetClubByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (*clubdb.Club, error)
	ListClubs(ctx context.Context, guildID sharedtypes.GuildID) ([]clubdb.Club, error)
	UpdateBudget(ctx context.Context, guildID sharedtypes.GuildID, clubID int64, budget decimal.Decimal) (*clubdb.Club, error)
	SetBudgetsBulk(ctx context.Context, guildID sharedtypes.GuildID, budget decimal.Decimal) (int, error)
	RenameClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64, newName string) (*clubdb.Club, error)
	DeleteClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) (*DeletedClub, error)
	SetRoleID(ctx context.Context, guildID sharedtypes.GuildID, clubID int64, roleID *sharedtypes.RoleID) error
}

// RosterReleaser turns every player of a club into a free agent. Implemented
// by the player repository; runs inside the club deletion transaction.
type RosterReleaser interface {
	ReleaseClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]sharedtypes.DiscordID, error)
}

// DeletedClub reports what a deletion touched.
type DeletedClub struct {
	Club            clubdb.Club
	PlayersReleased int
}
