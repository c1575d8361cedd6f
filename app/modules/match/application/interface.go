package matchservice

import (
	"context"
	"time"

	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
)

// Service schedules fixtures and hands due reminders to subscribers.
type Service interface {
	ScheduleMatch(ctx context.Context, req ScheduleRequest) (*MatchView, error)
	CancelMatch(ctx context.Context, guildID sharedtypes.GuildID, matchID int64) (*MatchView, error)
	CancelNextBetween(ctx context.Context, guildID sharedtypes.GuildID, clubA, clubB int64) (*MatchView, error)
	ListMatches(ctx context.Context, guildID sharedtypes.GuildID, upcomingOnly bool) ([]MatchView, error)
	UpcomingWithin(ctx context.Context, guildID sharedtypes.GuildID, within time.Duration) ([]MatchView, error)
	PollDueReminders(ctx context.Context, now time.Time, window time.Duration) ([]MatchView, error)
}

// ScheduleRequest books Team1 against Team2 at ScheduledAt.
type ScheduleRequest struct {
	GuildID     sharedtypes.GuildID
	Team1ID     int64
	Team2ID     int64
	ScheduledAt time.Time
	CreatedBy   sharedtypes.DiscordID
}

// MatchView is a match with the club names and roles resolved.
type MatchView struct {
	matchdb.Match
	Team1Name   string
	Team1RoleID *sharedtypes.RoleID
	Team2Name   string
	Team2RoleID *sharedtypes.RoleID
}
