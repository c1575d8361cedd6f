package guildservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	guilddb "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/operation"
	"github.com/Black-And-White-Club/league-bot/app/shared/results"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Repositories groups the stores a guild-wide operation touches.
type Repositories struct {
	Settings  guilddb.Repository
	Clubs     clubdb.Repository
	Players   playerdb.Repository
	Transfers transferdb.Repository
	Matches   matchdb.Repository
}

// GuildService implements the Service interface.
type GuildService struct {
	repos   Repositories
	emitter *events.Emitter
	runner  *operation.Runner
	db      *bun.DB
}

// NewGuildService creates a new GuildService.
func NewGuildService(
	repos Repositories,
	emitter *events.Emitter,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *GuildService {
	return &GuildService{
		repos:   repos,
		emitter: emitter,
		runner:  operation.NewRunner("GuildService", logger, metrics, tracer, db),
		db:      db,
	}
}

// GetSettings returns the guild's settings, or defaults when none are stored.
func (s *GuildService) GetSettings(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.Settings, error) {
	return operation.Execute(s.runner, ctx, "GetSettings", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*guilddb.Settings, error], error) {
		settings, err := s.loadSettings(ctx, db, guildID)
		if err != nil {
			return operation.Abort[*guilddb.Settings](err)
		}
		return operation.Succeed(settings)
	})
}

func (s *GuildService) loadSettings(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guilddb.Settings, error) {
	settings, err := s.repos.Settings.GetSettings(ctx, db, guildID)
	if err == nil {
		return settings, nil
	}
	if domainerr.IsRecoverable(err) {
		return &guilddb.Settings{GuildID: guildID, Timezone: "UTC"}, nil
	}
	return nil, domainerr.Storage("get settings", err)
}

// UpdateSettings applies a partial update, creating the row on first use.
func (s *GuildService) UpdateSettings(ctx context.Context, guildID sharedtypes.GuildID, updates *guilddb.UpdateFields) (*guilddb.Settings, error) {
	return operation.Execute(s.runner, ctx, "UpdateSettings", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*guilddb.Settings, error], error) {
		if guildID == "" {
			return operation.Fail[*guilddb.Settings](ErrInvalidGuildID)
		}
		if updates.IsEmpty() {
			return operation.Fail[*guilddb.Settings](ErrNoUpdates)
		}
		if updates.Timezone != nil && *updates.Timezone != "" {
			if _, err := time.LoadLocation(*updates.Timezone); err != nil {
				return operation.Fail[*guilddb.Settings](ErrInvalidTimezone)
			}
		}

		settings, err := s.loadSettings(ctx, db, guildID)
		if err != nil {
			return operation.Abort[*guilddb.Settings](err)
		}
		applyUpdates(settings, updates)
		if err := s.repos.Settings.SaveSettings(ctx, db, settings); err != nil {
			return operation.Abort[*guilddb.Settings](domainerr.Storage("save settings", err))
		}
		return operation.Succeed(settings)
	})
}

func applyUpdates(settings *guilddb.Settings, u *guilddb.UpdateFields) {
	if u.AdminRoleID != nil {
		settings.AdminRoleID = nil
		if *u.AdminRoleID != "" {
			id := sharedtypes.RoleID(*u.AdminRoleID)
			settings.AdminRoleID = &id
		}
	}
	if u.NotificationChannelID != nil {
		settings.NotificationChannelID = nil
		if *u.NotificationChannelID != "" {
			id := sharedtypes.ChannelID(*u.NotificationChannelID)
			settings.NotificationChannelID = &id
		}
	}
	if u.Timezone != nil {
		settings.Timezone = *u.Timezone
		if settings.Timezone == "" {
			settings.Timezone = "UTC"
		}
	}
	if len(u.Config) > 0 {
		if settings.Config == nil {
			settings.Config = map[string]string{}
		}
		for k, v := range u.Config {
			if v == "" {
				delete(settings.Config, k)
				continue
			}
			settings.Config[k] = v
		}
	}
}

// BackupGuildData reads every entity of the guild inside one read-only
// transaction so the snapshot is consistent.
func (s *GuildService) BackupGuildData(ctx context.Context, guildID sharedtypes.GuildID) (*Backup, error) {
	return operation.ExecuteWithOptions(s.runner, ctx, "BackupGuildData", string(guildID), dbutil.SnapshotTxOptions(s.db), func(ctx context.Context, db bun.IDB) (results.OperationResult[*Backup, error], error) {
		backup := &Backup{
			ID:        uuid.NewString(),
			GuildID:   guildID,
			CreatedAt: dbutil.Now(),
		}

		settings, err := s.repos.Settings.GetSettings(ctx, db, guildID)
		switch {
		case err == nil:
			backup.Settings = settings
		case !domainerr.IsRecoverable(err):
			return operation.Abort[*Backup](domainerr.Storage("read settings", err))
		}

		if backup.Clubs, err = s.repos.Clubs.List(ctx, db, guildID); err != nil {
			return operation.Abort[*Backup](domainerr.Storage("read clubs", err))
		}
		if backup.Players, err = s.repos.Players.List(ctx, db, guildID); err != nil {
			return operation.Abort[*Backup](domainerr.Storage("read players", err))
		}
		if backup.Transfers, err = s.repos.Transfers.ListByGuild(ctx, db, guildID); err != nil {
			return operation.Abort[*Backup](domainerr.Storage("read transfers", err))
		}
		if backup.Matches, err = s.repos.Matches.ListByGuild(ctx, db, guildID); err != nil {
			return operation.Abort[*Backup](domainerr.Storage("read matches", err))
		}
		return operation.Succeed(backup)
	})
}

// ResetGuildData deletes every entity of the guild in one transaction. After
// commit a ClubDeleted event goes out per club so role sync removes the roles.
func (s *GuildService) ResetGuildData(ctx context.Context, guildID sharedtypes.GuildID) (*ResetReport, error) {
	var clubs []clubdb.Club
	report, err := operation.Execute(s.runner, ctx, "ResetGuildData", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*ResetReport, error], error) {
		if guildID == "" {
			return operation.Fail[*ResetReport](ErrInvalidGuildID)
		}
		var err error
		if clubs, err = s.repos.Clubs.List(ctx, db, guildID); err != nil {
			return operation.Abort[*ResetReport](domainerr.Storage("read clubs", err))
		}

		report := &ResetReport{}
		steps := []struct {
			name string
			dst  *int64
			run  func(context.Context, bun.IDB, sharedtypes.GuildID) (int64, error)
		}{
			{"delete transfers", &report.Transfers, s.repos.Transfers.DeleteByGuild},
			{"delete matches", &report.Matches, s.repos.Matches.DeleteByGuild},
			{"delete players", &report.Players, s.repos.Players.DeleteByGuild},
			{"delete clubs", &report.Clubs, s.repos.Clubs.DeleteByGuild},
			{"delete settings", &report.Settings, s.repos.Settings.DeleteSettings},
		}
		for _, step := range steps {
			n, err := step.run(ctx, db, guildID)
			if err != nil {
				return operation.Abort[*ResetReport](domainerr.Storage(step.name, err))
			}
			*step.dst = n
		}
		return operation.Succeed(report)
	})
	if err != nil {
		return nil, err
	}

	for _, c := range clubs {
		s.emitter.Emit(ctx, events.ClubDeletedV1, string(guildID), events.ClubDeletedPayloadV1{
			GuildID: guildID,
			ClubID:  c.ID,
			Name:    c.Name,
			RoleID:  c.RoleID,
		})
	}
	return report, nil
}

var _ Service = (*GuildService)(nil)
