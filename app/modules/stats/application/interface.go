package statsservice

import (
	"context"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
)

// Service answers read-only questions about a guild's league.
type Service interface {
	TopPlayers(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]RankedPlayer, error)
	RichestClubs(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]clubdb.Club, error)
	ClubStats(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) (*ClubSummary, error)
	CompareClubs(ctx context.Context, guildID sharedtypes.GuildID, clubA, clubB int64) (*Comparison, error)
	LeagueOverview(ctx context.Context, guildID sharedtypes.GuildID) (*Overview, error)
	RenderBudgetChart(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]byte, error)
}

// RankedPlayer is a player with the name of their club, nil for free agents.
type RankedPlayer struct {
	playerdb.Player
	Rank     int
	ClubName *string
}

// ClubSummary aggregates a club's squad and transfer activity.
type ClubSummary struct {
	Club         clubdb.Club
	PlayerCount  int
	SquadValue   decimal.Decimal
	TransfersIn  int
	TransfersOut int
	// Spent is the sum of fees paid for incoming players.
	Spent decimal.Decimal
	// Earned is the sum of fees received for outgoing players.
	Earned decimal.Decimal
}

// NetSpend is Spent minus Earned.
func (c *ClubSummary) NetSpend() decimal.Decimal {
	return c.Spent.Sub(c.Earned)
}

// Comparison puts two clubs side by side with their fixtures against each other.
type Comparison struct {
	A, B ClubSummary
	// HeadToHead counts every stored match between the two clubs.
	HeadToHead int
	NextMatch  *matchdb.Match
}

// Overview summarizes a guild.
type Overview struct {
	GuildID         sharedtypes.GuildID
	Clubs           int
	Players         int
	FreeAgents      int
	Transfers       int
	TotalBudget     decimal.Decimal
	TotalSquadValue decimal.Decimal
	TotalFees       decimal.Decimal
	// Upcoming holds the next fixtures, soonest first.
	Upcoming []matchdb.Match
}
