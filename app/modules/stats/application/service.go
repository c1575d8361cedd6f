package statsservice

import (
	"context"
	"log/slog"
	"sort"
	"time"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/operation"
	"github.com/Black-And-White-Club/league-bot/app/shared/results"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Repositories groups the stores the stats service reads.
type Repositories struct {
	Clubs     clubdb.Repository
	Players   playerdb.Repository
	Transfers transferdb.Repository
	Matches   matchdb.Repository
}

// StatsService implements the Service interface.
type StatsService struct {
	repos   Repositories
	runner  *operation.Runner
	db      *bun.DB
	palette Palette
	now     func() time.Time
}

// Option configures a StatsService.
type Option func(*StatsService)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *StatsService) { s.now = now }
}

// WithPalette replaces the chart colors.
func WithPalette(p Palette) Option {
	return func(s *StatsService) { s.palette = p }
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	repos Repositories,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *StatsService {
	s := &StatsService{
		repos:   repos,
		runner:  operation.NewRunner("StatsService", logger, metrics, tracer, db),
		db:      db,
		palette: DefaultPalette,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// read runs fn in a read-only snapshot so aggregates across tables agree.
func read[T any](s *StatsService, ctx context.Context, name string, guildID sharedtypes.GuildID, fn func(ctx context.Context, db bun.IDB) (results.OperationResult[T, error], error)) (T, error) {
	return operation.ExecuteWithOptions(s.runner, ctx, name, string(guildID), dbutil.SnapshotTxOptions(s.db), fn)
}

// TopPlayers ranks players by value. Ties share the order of the store.
func (s *StatsService) TopPlayers(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]RankedPlayer, error) {
	limit = clampLimit(limit)
	return read(s, ctx, "TopPlayers", guildID, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]RankedPlayer, error], error) {
		players, err := s.repos.Players.List(ctx, db, guildID)
		if err != nil {
			return operation.Abort[[]RankedPlayer](domainerr.Storage("list players", err))
		}
		clubs, err := s.clubsByID(ctx, db, guildID)
		if err != nil {
			return operation.Abort[[]RankedPlayer](err)
		}

		if len(players) > limit {
			players = players[:limit]
		}
		ranked := make([]RankedPlayer, len(players))
		for i, p := range players {
			ranked[i] = RankedPlayer{Player: p, Rank: i + 1}
			if p.ClubID != nil {
				if c, ok := clubs[*p.ClubID]; ok {
					name := c.Name
					ranked[i].ClubName = &name
				}
			}
		}
		return operation.Succeed(ranked)
	})
}

// RichestClubs orders clubs by budget, highest first, then by name.
func (s *StatsService) RichestClubs(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]clubdb.Club, error) {
	limit = clampLimit(limit)
	return read(s, ctx, "RichestClubs", guildID, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]clubdb.Club, error], error) {
		clubs, err := s.richest(ctx, db, guildID, limit)
		if err != nil {
			return operation.Abort[[]clubdb.Club](err)
		}
		return operation.Succeed(clubs)
	})
}

func (s *StatsService) richest(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, limit int) ([]clubdb.Club, error) {
	clubs, err := s.repos.Clubs.List(ctx, db, guildID)
	if err != nil {
		return nil, domainerr.Storage("list clubs", err)
	}
	sort.SliceStable(clubs, func(i, j int) bool {
		return clubs[i].Budget.GreaterThan(clubs[j].Budget)
	})
	if len(clubs) > limit {
		clubs = clubs[:limit]
	}
	return clubs, nil
}

// ClubStats summarizes one club.
func (s *StatsService) ClubStats(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) (*ClubSummary, error) {
	return read(s, ctx, "ClubStats", guildID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*ClubSummary, error], error) {
		summaries, err := s.summaries(ctx, db, guildID, clubID)
		if err != nil {
			return failOrAbort[*ClubSummary](err)
		}
		return operation.Succeed(summaries[0])
	})
}

// CompareClubs summarizes two clubs and their fixtures against each other.
func (s *StatsService) CompareClubs(ctx context.Context, guildID sharedtypes.GuildID, clubA, clubB int64) (*Comparison, error) {
	return read(s, ctx, "CompareClubs", guildID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*Comparison, error], error) {
		if clubA == clubB {
			return operation.Fail[*Comparison](ErrSameClub)
		}
		summaries, err := s.summaries(ctx, db, guildID, clubA, clubB)
		if err != nil {
			return failOrAbort[*Comparison](err)
		}

		matches, err := s.repos.Matches.ListByGuild(ctx, db, guildID)
		if err != nil {
			return operation.Abort[*Comparison](domainerr.Storage("list matches", err))
		}
		cmp := &Comparison{A: *summaries[0], B: *summaries[1]}
		now := dbutil.Normalize(s.now())
		for i := range matches {
			m := matches[i]
			if !m.Involves(clubA) || !m.Involves(clubB) {
				continue
			}
			cmp.HeadToHead++
			if cmp.NextMatch == nil && m.ScheduledAt.After(now) {
				cmp.NextMatch = &m
			}
		}
		return operation.Succeed(cmp)
	})
}

// LeagueOverview counts the guild's entities and lists its next fixtures.
func (s *StatsService) LeagueOverview(ctx context.Context, guildID sharedtypes.GuildID) (*Overview, error) {
	return read(s, ctx, "LeagueOverview", guildID, func(ctx context.Context, db bun.IDB) (results.OperationResult[*Overview, error], error) {
		clubs, err := s.repos.Clubs.List(ctx, db, guildID)
		if err != nil {
			return operation.Abort[*Overview](domainerr.Storage("list clubs", err))
		}
		players, err := s.repos.Players.List(ctx, db, guildID)
		if err != nil {
			return operation.Abort[*Overview](domainerr.Storage("list players", err))
		}
		transfers, err := s.repos.Transfers.ListByGuild(ctx, db, guildID)
		if err != nil {
			return operation.Abort[*Overview](domainerr.Storage("list transfers", err))
		}
		now := dbutil.Normalize(s.now())
		upcoming, err := s.repos.Matches.List(ctx, db, guildID, &now)
		if err != nil {
			return operation.Abort[*Overview](domainerr.Storage("list matches", err))
		}

		o := &Overview{
			GuildID:         guildID,
			Clubs:           len(clubs),
			Players:         len(players),
			Transfers:       len(transfers),
			TotalBudget:     decimal.Zero,
			TotalSquadValue: decimal.Zero,
			TotalFees:       decimal.Zero,
		}
		for _, c := range clubs {
			o.TotalBudget = o.TotalBudget.Add(c.Budget)
		}
		for _, p := range players {
			o.TotalSquadValue = o.TotalSquadValue.Add(p.Value)
			if p.IsFreeAgent() {
				o.FreeAgents++
			}
		}
		for _, t := range transfers {
			o.TotalFees = o.TotalFees.Add(t.Fee)
		}
		if len(upcoming) > OverviewUpcoming {
			upcoming = upcoming[:OverviewUpcoming]
		}
		o.Upcoming = upcoming
		return operation.Succeed(o)
	})
}

// RenderBudgetChart draws the richest clubs as a PNG bar chart. A guild with
// no clubs gets a placeholder image.
func (s *StatsService) RenderBudgetChart(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]byte, error) {
	limit = clampLimit(limit)
	return read(s, ctx, "RenderBudgetChart", guildID, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
		clubs, err := s.richest(ctx, db, guildID, limit)
		if err != nil {
			return operation.Abort[[]byte](err)
		}
		png, err := GenerateBudgetChart(clubs, s.palette)
		if err != nil {
			return operation.Abort[[]byte](err)
		}
		return operation.Succeed(png)
	})
}

func (s *StatsService) clubsByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (map[int64]clubdb.Club, error) {
	clubs, err := s.repos.Clubs.List(ctx, db, guildID)
	if err != nil {
		return nil, domainerr.Storage("list clubs", err)
	}
	out := make(map[int64]clubdb.Club, len(clubs))
	for _, c := range clubs {
		out[c.ID] = c
	}
	return out, nil
}

// summaries builds one summary per id, in the order given.
func (s *StatsService) summaries(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids ...int64) ([]*ClubSummary, error) {
	clubs, err := s.repos.Clubs.GetByIDs(ctx, db, guildID, ids)
	if err != nil {
		return nil, domainerr.Storage("get clubs", err)
	}
	byID := make(map[int64]*ClubSummary, len(ids))
	out := make([]*ClubSummary, len(ids))
	for i, id := range ids {
		c, ok := clubs[id]
		if !ok {
			return nil, ErrClubNotFound
		}
		out[i] = &ClubSummary{Club: *c, SquadValue: decimal.Zero, Spent: decimal.Zero, Earned: decimal.Zero}
		byID[id] = out[i]
	}

	for _, id := range ids {
		roster, err := s.repos.Players.ListByClub(ctx, db, guildID, id)
		if err != nil {
			return nil, domainerr.Storage("list roster", err)
		}
		sum := byID[id]
		sum.PlayerCount = len(roster)
		for _, p := range roster {
			sum.SquadValue = sum.SquadValue.Add(p.Value)
		}
	}

	transfers, err := s.repos.Transfers.ListByGuild(ctx, db, guildID)
	if err != nil {
		return nil, domainerr.Storage("list transfers", err)
	}
	for _, t := range transfers {
		if t.ToClubID != nil {
			if sum, ok := byID[*t.ToClubID]; ok {
				sum.TransfersIn++
				sum.Spent = sum.Spent.Add(t.Fee)
			}
		}
		if t.FromClubID != nil {
			if sum, ok := byID[*t.FromClubID]; ok {
				sum.TransfersOut++
				sum.Earned = sum.Earned.Add(t.Fee)
			}
		}
	}
	return out, nil
}

func failOrAbort[S any](err error) (results.OperationResult[S, error], error) {
	if domainerr.IsRecoverable(err) {
		return operation.Fail[S](err)
	}
	return operation.Abort[S](err)
}

var _ Service = (*StatsService)(nil)
