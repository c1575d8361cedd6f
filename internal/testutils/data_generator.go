package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var positions = []string{"GK", "CB", "LB", "RB", "CDM", "CM", "CAM", "LW", "RW", "ST"}

// TestDataGenerator builds and inserts league rows with fake but stable data.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	db    bun.IDB
	seq   int
}

// NewTestDataGenerator creates a generator writing to db. A seed makes the
// generated names reproducible.
func NewTestDataGenerator(db bun.IDB, seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), db: db}
}

// unique suffixes fake names so per-guild uniqueness holds across calls.
func (g *TestDataGenerator) unique(name string) string {
	g.seq++
	return fmt.Sprintf("%s %d", name, g.seq)
}

// DiscordID returns a fake snowflake.
func (g *TestDataGenerator) DiscordID() sharedtypes.DiscordID {
	return sharedtypes.DiscordID(g.faker.Numerify("1##################"))
}

// Club inserts a club with the given budget.
func (g *TestDataGenerator) Club(t testing.TB, guildID sharedtypes.GuildID, budget int64) *clubdb.Club {
	t.Helper()
	club := &clubdb.Club{
		GuildID: guildID,
		Name:    g.unique(g.faker.City() + " FC"),
		Budget:  decimal.NewFromInt(budget),
	}
	require.NoError(t, clubdb.NewRepository(g.db).Create(context.Background(), nil, club))
	return club
}

// Player inserts a player. A nil clubID makes a free agent.
func (g *TestDataGenerator) Player(t testing.TB, guildID sharedtypes.GuildID, clubID *int64) *playerdb.Player {
	t.Helper()
	userID := g.DiscordID()
	player := &playerdb.Player{
		GuildID:  guildID,
		Name:     g.unique(g.faker.Name()),
		Value:    decimal.NewFromInt(int64(g.faker.Number(1, 500)) * 1000),
		ClubID:   clubID,
		Position: positions[g.faker.Number(0, len(positions)-1)],
		Age:      g.faker.Number(17, 38),
		UserID:   &userID,
	}
	require.NoError(t, playerdb.NewRepository(g.db).Create(context.Background(), nil, player))
	return player
}

// Match inserts a match between two clubs at the given time.
func (g *TestDataGenerator) Match(t testing.TB, guildID sharedtypes.GuildID, team1, team2 int64, at time.Time) *matchdb.Match {
	t.Helper()
	match := &matchdb.Match{
		GuildID:     guildID,
		Team1ID:     team1,
		Team2ID:     team2,
		ScheduledAt: at,
		CreatedBy:   g.DiscordID(),
	}
	require.NoError(t, matchdb.NewRepository(g.db).Create(context.Background(), nil, match))
	return match
}
