package app

import (
	"context"
	"testing"
	"time"

	playerservice "github.com/Black-And-White-Club/league-bot/app/modules/player/application"
	transferservice "github.com/Black-And-White-Club/league-bot/app/modules/transfer/application"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Database:  config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		EventBus:  config.EventBusConfig{Driver: "memory"},
		Scheduler: config.SchedulerConfig{Driver: "ticker", PollInterval: time.Minute, ReminderWindow: 5 * time.Minute},
		HTTP:      config.HTTPConfig{Addr: "127.0.0.1:0", RequestsPerSecond: 10, Burst: 10},
	}
}

func TestNewAppWiresModules(t *testing.T) {
	ctx := context.Background()
	a, err := NewApp(ctx, testConfig(), observability.NewNop())
	require.NoError(t, err)
	defer a.Close()

	const guild = "g-app"
	clubs := a.Modules.Club.ClubService
	from, err := clubs.CreateClub(ctx, guild, "Rovers", decimal.NewFromInt(1000))
	require.NoError(t, err)
	to, err := clubs.CreateClub(ctx, guild, "United", decimal.NewFromInt(1000))
	require.NoError(t, err)

	p, err := a.Modules.Player.PlayerService.CreatePlayer(ctx, playerservice.CreatePlayerRequest{
		GuildID: guild,
		Name:    "Ada",
		Value:   decimal.NewFromInt(300),
		ClubID:  &from.ID,
	})
	require.NoError(t, err)

	_, err = a.Modules.Transfer.TransferService.Transfer(ctx, transferservice.Request{
		GuildID:  guild,
		PlayerID: p.ID,
		ToClubID: &to.ID,
		Fee:      decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	overview, err := a.Modules.Stats.StatsService.LeagueOverview(ctx, guild)
	require.NoError(t, err)
	assert.True(t, overview.TotalBudget.Equal(decimal.NewFromInt(2000)))

	backup, err := a.Modules.Guild.GuildService.BackupGuildData(ctx, guild)
	require.NoError(t, err)
	assert.Len(t, backup.Clubs, 2)
	assert.Len(t, backup.Transfers, 1)

	assert.False(t, a.Modules.Discord.Connected())
}

func TestNewAppRejectsBadDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "mysql"

	_, err := NewApp(context.Background(), cfg, observability.NewNop())
	require.Error(t, err)
}

func TestStartStopsOnCancel(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig(), observability.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	require.Eventually(t, func() bool {
		select {
		case <-a.Router.Running():
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
