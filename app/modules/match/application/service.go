package matchservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/operation"
	"github.com/Black-And-White-Club/league-bot/app/shared/results"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// MatchService implements the Service interface.
type MatchService struct {
	repo    matchdb.Repository
	clubs   clubdb.Repository
	emitter *events.Emitter
	runner  *operation.Runner
	now     func() time.Time
}

// Option configures a MatchService.
type Option func(*MatchService)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *MatchService) { s.now = now }
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	repo matchdb.Repository,
	clubs clubdb.Repository,
	emitter *events.Emitter,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *MatchService {
	s := &MatchService{
		repo:    repo,
		clubs:   clubs,
		emitter: emitter,
		runner:  operation.NewRunner("MatchService", logger, metrics, tracer, db),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MatchService) clock() time.Time {
	return dbutil.Normalize(s.now())
}

// ScheduleMatch books a fixture between two existing clubs of the guild.
func (s *MatchService) ScheduleMatch(ctx context.Context, req ScheduleRequest) (*MatchView, error) {
	view, err := operation.Execute(s.runner, ctx, "ScheduleMatch", string(req.GuildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*MatchView, error], error) {
		if req.Team1ID == req.Team2ID {
			return operation.Fail[*MatchView](ErrSameClub)
		}
		if !dbutil.Normalize(req.ScheduledAt).After(s.clock()) {
			return operation.Fail[*MatchView](ErrPastDate)
		}

		clubs, err := s.clubs.GetByIDs(ctx, db, req.GuildID, []int64{req.Team1ID, req.Team2ID})
		if err != nil {
			return operation.Abort[*MatchView](domainerr.Storage("get clubs", err))
		}
		if clubs[req.Team1ID] == nil || clubs[req.Team2ID] == nil {
			return operation.Fail[*MatchView](clubdb.ErrNotFound)
		}

		match := &matchdb.Match{
			GuildID:     req.GuildID,
			Team1ID:     req.Team1ID,
			Team2ID:     req.Team2ID,
			ScheduledAt: req.ScheduledAt,
			CreatedBy:   req.CreatedBy,
		}
		if err := s.repo.Create(ctx, db, match); err != nil {
			return operation.Abort[*MatchView](domainerr.Storage("create match", err))
		}
		v := newView(*match, clubs)
		return operation.Succeed(&v)
	})
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, events.MatchScheduledV1, string(req.GuildID), view.payload())
	return view, nil
}

// CancelMatch deletes a match by id.
func (s *MatchService) CancelMatch(ctx context.Context, guildID sharedtypes.GuildID, matchID int64) (*MatchView, error) {
	return s.cancel(ctx, "CancelMatch", guildID, func(ctx context.Context, db bun.IDB) (*matchdb.Match, error) {
		return s.repo.GetByID(ctx, db, guildID, matchID)
	})
}

// CancelNextBetween deletes the next upcoming match between two clubs.
func (s *MatchService) CancelNextBetween(ctx context.Context, guildID sharedtypes.GuildID, clubA, clubB int64) (*MatchView, error) {
	return s.cancel(ctx, "CancelNextBetween", guildID, func(ctx context.Context, db bun.IDB) (*matchdb.Match, error) {
		return s.repo.FindNextBetween(ctx, db, guildID, clubA, clubB, s.clock())
	})
}

func (s *MatchService) cancel(
	ctx context.Context,
	opName string,
	guildID sharedtypes.GuildID,
	find func(ctx context.Context, db bun.IDB) (*matchdb.Match, error),
) (*MatchView, error) {
	view, err := operation.Execute(s.runner, ctx, opName, string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*MatchView, error], error) {
		match, err := find(ctx, db)
		if err != nil {
			if domainerr.IsRecoverable(err) {
				return operation.Fail[*MatchView](err)
			}
			return operation.Abort[*MatchView](domainerr.Storage("find match", err))
		}
		if err := s.repo.Delete(ctx, db, guildID, match.ID); err != nil {
			if domainerr.IsRecoverable(err) {
				return operation.Fail[*MatchView](err)
			}
			return operation.Abort[*MatchView](domainerr.Storage("delete match", err))
		}
		views, err := s.resolve(ctx, db, []matchdb.Match{*match})
		if err != nil {
			return operation.Abort[*MatchView](err)
		}
		return operation.Succeed(&views[0])
	})
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, events.MatchCancelledV1, string(guildID), view.payload())
	return view, nil
}

// ListMatches returns the guild's matches by kickoff, optionally only those
// still to come.
func (s *MatchService) ListMatches(ctx context.Context, guildID sharedtypes.GuildID, upcomingOnly bool) ([]MatchView, error) {
	return operation.Execute(s.runner, ctx, "ListMatches", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]MatchView, error], error) {
		var after *time.Time
		if upcomingOnly {
			now := s.clock()
			after = &now
		}
		matches, err := s.repo.List(ctx, db, guildID, after)
		if err != nil {
			return operation.Abort[[]MatchView](domainerr.Storage("list matches", err))
		}
		views, err := s.resolve(ctx, db, matches)
		if err != nil {
			return operation.Abort[[]MatchView](err)
		}
		return operation.Succeed(views)
	})
}

// UpcomingWithin lists matches kicking off in the next `within` without
// marking them reminded.
func (s *MatchService) UpcomingWithin(ctx context.Context, guildID sharedtypes.GuildID, within time.Duration) ([]MatchView, error) {
	return operation.Execute(s.runner, ctx, "UpcomingWithin", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]MatchView, error], error) {
		if within <= 0 {
			return operation.Fail[[]MatchView](ErrInvalidWindow)
		}
		now := s.clock()
		matches, err := s.repo.ListBetweenTimes(ctx, db, guildID, now, now.Add(within))
		if err != nil {
			return operation.Abort[[]MatchView](domainerr.Storage("list upcoming matches", err))
		}
		views, err := s.resolve(ctx, db, matches)
		if err != nil {
			return operation.Abort[[]MatchView](err)
		}
		return operation.Succeed(views)
	})
}

// PollDueReminders claims every unreminded match with
// now < scheduled_at <= now+window in one transaction and publishes a
// reminder for each after commit. Matches whose kickoff already passed are
// never claimed. A publish failure after commit loses that reminder; it is
// never sent twice.
func (s *MatchService) PollDueReminders(ctx context.Context, now time.Time, window time.Duration) ([]MatchView, error) {
	views, err := operation.Execute(s.runner, ctx, "PollDueReminders", now.UTC().Format(time.RFC3339), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]MatchView, error], error) {
		if window <= 0 {
			return operation.Fail[[]MatchView](ErrInvalidWindow)
		}
		from := dbutil.Normalize(now)
		claimed, err := s.repo.ClaimDue(ctx, db, from, from.Add(window))
		if err != nil {
			return operation.Abort[[]MatchView](domainerr.Storage("claim due matches", err))
		}
		views, err := s.resolve(ctx, db, claimed)
		if err != nil {
			return operation.Abort[[]MatchView](err)
		}
		return operation.Succeed(views)
	})
	if err != nil {
		return nil, err
	}
	for i := range views {
		s.emitter.Emit(ctx, events.MatchReminderDueV1, string(views[i].GuildID), views[i].payload())
	}
	return views, nil
}

// resolve attaches club names and roles. Matches may span guilds.
func (s *MatchService) resolve(ctx context.Context, db bun.IDB, matches []matchdb.Match) ([]MatchView, error) {
	ids := map[sharedtypes.GuildID][]int64{}
	for _, m := range matches {
		ids[m.GuildID] = append(ids[m.GuildID], m.Team1ID, m.Team2ID)
	}
	clubs := map[sharedtypes.GuildID]map[int64]*clubdb.Club{}
	for guildID, clubIDs := range ids {
		found, err := s.clubs.GetByIDs(ctx, db, guildID, clubIDs)
		if err != nil {
			return nil, domainerr.Storage("get clubs", err)
		}
		clubs[guildID] = found
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, newView(m, clubs[m.GuildID]))
	}
	return views, nil
}

func newView(m matchdb.Match, clubs map[int64]*clubdb.Club) MatchView {
	v := MatchView{Match: m}
	v.Team1Name, v.Team1RoleID = clubLabel(clubs, m.Team1ID)
	v.Team2Name, v.Team2RoleID = clubLabel(clubs, m.Team2ID)
	return v
}

// clubLabel names a club. Deleting a club leaves its matches in place, so a
// missing club gets a placeholder.
func clubLabel(clubs map[int64]*clubdb.Club, id int64) (string, *sharedtypes.RoleID) {
	if c, ok := clubs[id]; ok && c != nil {
		return c.Name, c.RoleID
	}
	return fmt.Sprintf("deleted club #%d", id), nil
}

func (v *MatchView) payload() events.MatchPayloadV1 {
	return events.MatchPayloadV1{
		GuildID:     v.GuildID,
		MatchID:     v.ID,
		Team1ID:     v.Team1ID,
		Team1Name:   v.Team1Name,
		Team1RoleID: v.Team1RoleID,
		Team2ID:     v.Team2ID,
		Team2Name:   v.Team2Name,
		Team2RoleID: v.Team2RoleID,
		ScheduledAt: v.ScheduledAt,
		CreatedBy:   v.CreatedBy,
	}
}

var _ Service = (*MatchService)(nil)
