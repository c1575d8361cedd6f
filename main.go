package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Black-And-White-Club/league-bot/app"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	matchservice "github.com/Black-And-White-Club/league-bot/app/modules/match/application"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "league-bot",
		Usage: "run and administer the Discord league bot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file", EnvVars: []string{"CONFIG_PATH"}},
		},
		DefaultCommand: "run",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "start the bot, the reminder scheduler and the health server",
				Action: func(c *cli.Context) error {
					a, err := openApp(c)
					if err != nil {
						return err
					}
					return a.Start(c.Context)
				},
			},
			{
				Name:      "backup",
				Usage:     "write a guild backup as json or xlsx",
				ArgsUsage: "<guild-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "json", Usage: "json or xlsx"},
					&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
				},
				Action: backupAction,
			},
			{
				Name:      "reset",
				Usage:     "delete every club, player, transfer, match and setting of a guild",
				ArgsUsage: "<guild-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "confirm the reset"},
				},
				Action: resetAction,
			},
			{
				Name:      "schedule",
				Usage:     "schedule a match between two clubs",
				ArgsUsage: "<guild-id> <club> <club> <kickoff>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tz", Value: "UTC", Usage: "time zone the kickoff is read in"},
					&cli.StringFlag{Name: "by", Value: "cli", Usage: "recorded as the match creator"},
				},
				Action: scheduleAction,
			},
			{
				Name:      "chart",
				Usage:     "render the club budget chart as PNG",
				ArgsUsage: "<guild-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "number of clubs"},
					&cli.StringFlag{Name: "out", Value: "budgets.png", Usage: "output file"},
				},
				Action: chartAction,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openApp loads config, initializes observability and builds the application.
func openApp(c *cli.Context) (*app.App, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	obs, err := observability.Init(config.ToObsConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	slog.SetDefault(obs.Provider.Logger)
	return app.NewApp(c.Context, cfg, obs)
}

// withApp runs a one shot command. Start closes the App itself, so only
// commands that never start it go through here.
func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(c.Context, a)
}

func guildArg(c *cli.Context) (sharedtypes.GuildID, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("guild id required")
	}
	return sharedtypes.GuildID(id), nil
}

func output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func backupAction(c *cli.Context) error {
	guildID, err := guildArg(c)
	if err != nil {
		return err
	}
	format := c.String("format")
	if format != "json" && format != "xlsx" {
		return fmt.Errorf("unsupported format %q", format)
	}

	return withApp(c, func(ctx context.Context, a *app.App) error {
		svc := a.Modules.Guild.GuildService
		backup, err := svc.BackupGuildData(ctx, guildID)
		if err != nil {
			return err
		}

		w, err := output(c.String("out"))
		if err != nil {
			return err
		}
		defer w.Close()

		if format == "xlsx" {
			return svc.ExportBackupXLSX(ctx, backup, w)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(backup)
	})
}

func resetAction(c *cli.Context) error {
	guildID, err := guildArg(c)
	if err != nil {
		return err
	}
	if !c.Bool("yes") {
		return fmt.Errorf("refusing to reset guild %s without --yes", guildID)
	}

	return withApp(c, func(ctx context.Context, a *app.App) error {
		report, err := a.Modules.Guild.GuildService.ResetGuildData(ctx, guildID)
		if err != nil {
			return err
		}
		fmt.Printf("Reset guild %s: %d clubs, %d players, %d transfers, %d matches, %d settings removed\n",
			guildID, report.Clubs, report.Players, report.Transfers, report.Matches, report.Settings)
		return nil
	})
}

func chartAction(c *cli.Context) error {
	guildID, err := guildArg(c)
	if err != nil {
		return err
	}

	return withApp(c, func(ctx context.Context, a *app.App) error {
		png, err := a.Modules.Stats.StatsService.RenderBudgetChart(ctx, guildID, c.Int("limit"))
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.String("out"), png, 0o644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Printf("Wrote %s\n", c.String("out"))
		return nil
	})
}

type clubFinder interface {
	GetClubByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (*clubdb.Club, error)
}

// scheduleRequest resolves both clubs by name and reads the kickoff in loc.
func scheduleRequest(ctx context.Context, clubs clubFinder, guildID sharedtypes.GuildID, team1, team2, kickoff string, loc *time.Location, now time.Time) (matchservice.ScheduleRequest, error) {
	at, err := matchservice.ParseKickoff(kickoff, loc, now)
	if err != nil {
		return matchservice.ScheduleRequest{}, fmt.Errorf("kickoff %q: %w", kickoff, err)
	}
	home, err := clubs.GetClubByName(ctx, guildID, team1)
	if err != nil {
		return matchservice.ScheduleRequest{}, fmt.Errorf("club %q: %w", team1, err)
	}
	away, err := clubs.GetClubByName(ctx, guildID, team2)
	if err != nil {
		return matchservice.ScheduleRequest{}, fmt.Errorf("club %q: %w", team2, err)
	}
	return matchservice.ScheduleRequest{
		GuildID:     guildID,
		Team1ID:     home.ID,
		Team2ID:     away.ID,
		ScheduledAt: at,
	}, nil
}

func scheduleAction(c *cli.Context) error {
	guildID, err := guildArg(c)
	if err != nil {
		return err
	}
	if c.NArg() != 4 {
		return fmt.Errorf("usage: schedule <guild-id> <club> <club> <kickoff>")
	}
	loc, err := time.LoadLocation(c.String("tz"))
	if err != nil {
		return fmt.Errorf("unknown time zone %q: %w", c.String("tz"), err)
	}

	return withApp(c, func(ctx context.Context, a *app.App) error {
		req, err := scheduleRequest(ctx, a.Modules.Club.ClubService, guildID,
			c.Args().Get(1), c.Args().Get(2), c.Args().Get(3), loc, time.Now())
		if err != nil {
			return err
		}
		req.CreatedBy = sharedtypes.DiscordID(c.String("by"))

		match, err := a.Modules.Match.MatchService.ScheduleMatch(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled match #%d: %s vs %s at %s\n",
			match.ID, match.Team1Name, match.Team2Name, match.ScheduledAt.In(loc).Format(matchservice.KickoffLayout))
		return nil
	})
}
