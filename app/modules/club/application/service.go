package clubservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
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

const maxNameLength = 100

// ClubService implements the Service interface.
type ClubService struct {
	repo    clubdb.Repository
	roster  RosterReleaser
	emitter *events.Emitter
	runner  *operation.Runner
}

// NewClubService creates a new ClubService.
func NewClubService(
	repo clubdb.Repository,
	roster RosterReleaser,
	emitter *events.Emitter,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ClubService {
	return &ClubService{
		repo:    repo,
		roster:  roster,
		emitter: emitter,
		runner:  operation.NewRunner("ClubService", logger, metrics, tracer, db),
	}
}

// NormalizeName trims and validates a club name.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// CreateClub registers a club with a starting budget.
func (s *ClubService) CreateClub(ctx context.Context, guildID sharedtypes.GuildID, name string, budget decimal.Decimal) (*clubdb.Club, error) {
	club, err := operation.Execute(s.runner, ctx, "CreateClub", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		name, err := NormalizeName(name)
		if err != nil {
			return operation.Fail[*clubdb.Club](err)
		}
		if budget.IsNegative() {
			return operation.Fail[*clubdb.Club](ErrNegativeBudget)
		}
		if !dbutil.FitsMoneyScale(budget) {
			return operation.Fail[*clubdb.Club](ErrBudgetPrecision)
		}

		if _, err := s.repo.GetByName(ctx, db, guildID, name); err == nil {
			return operation.Fail[*clubdb.Club](clubdb.ErrDuplicateName)
		} else if !errors.Is(err, clubdb.ErrNotFound) {
			return operation.Abort[*clubdb.Club](domainerr.Storage("check club name", err))
		}

		club := &clubdb.Club{GuildID: guildID, Name: name, Budget: budget}
		if err := s.repo.Create(ctx, db, club); err != nil {
			if errors.Is(err, clubdb.ErrDuplicateName) {
				return operation.Fail[*clubdb.Club](err)
			}
			return operation.Abort[*clubdb.Club](domainerr.Storage("create club", err))
		}
		return operation.Succeed(club)
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.ClubCreatedV1, string(guildID), events.ClubCreatedPayloadV1{
		GuildID: guildID,
		ClubID:  club.ID,
		Name:    club.Name,
	})
	return club, nil
}

// GetClub retrieves a club by id.
func (s *ClubService) GetClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) (*clubdb.Club, error) {
	return operation.Execute(s.runner, ctx, "GetClub", fmt.Sprint(clubID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		return s.lookup(s.repo.GetByID(ctx, db, guildID, clubID))
	})
}

// GetClubByName retrieves a club by its exact name.
func (s *ClubService) GetClubByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (*clubdb.Club, error) {
	return operation.Execute(s.runner, ctx, "GetClubByName", name, func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		return s.lookup(s.repo.GetByName(ctx, db, guildID, strings.TrimSpace(name)))
	})
}

func (s *ClubService) lookup(club *clubdb.Club, err error) (results.OperationResult[*clubdb.Club, error], error) {
	if err != nil {
		if errors.Is(err, clubdb.ErrNotFound) {
			return operation.Fail[*clubdb.Club](err)
		}
		return operation.Abort[*clubdb.Club](domainerr.Storage("get club", err))
	}
	return operation.Succeed(club)
}

// ListClubs returns the guild's clubs ordered by name.
func (s *ClubService) ListClubs(ctx context.Context, guildID sharedtypes.GuildID) ([]clubdb.Club, error) {
	return operation.Execute(s.runner, ctx, "ListClubs", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]clubdb.Club, error], error) {
		clubs, err := s.repo.List(ctx, db, guildID)
		if err != nil {
			return operation.Abort[[]clubdb.Club](domainerr.Storage("list clubs", err))
		}
		return operation.Succeed(clubs)
	})
}

// UpdateBudget overwrites one club's budget.
func (s *ClubService) UpdateBudget(ctx context.Context, guildID sharedtypes.GuildID, clubID int64, budget decimal.Decimal) (*clubdb.Club, error) {
	return operation.Execute(s.runner, ctx, "UpdateBudget", fmt.Sprint(clubID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		if budget.IsNegative() {
			return operation.Fail[*clubdb.Club](ErrNegativeBudget)
		}
		if !dbutil.FitsMoneyScale(budget) {
			return operation.Fail[*clubdb.Club](ErrBudgetPrecision)
		}
		if err := s.repo.UpdateBudget(ctx, db, guildID, clubID, budget); err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return operation.Fail[*clubdb.Club](err)
			}
			return operation.Abort[*clubdb.Club](domainerr.Storage("update budget", err))
		}
		return s.lookup(s.repo.GetByID(ctx, db, guildID, clubID))
	})
}

// SetBudgetsBulk sets every club of the guild to the same budget.
func (s *ClubService) SetBudgetsBulk(ctx context.Context, guildID sharedtypes.GuildID, budget decimal.Decimal) (int, error) {
	return operation.Execute(s.runner, ctx, "SetBudgetsBulk", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		if budget.IsNegative() {
			return operation.Fail[int](ErrNegativeBudget)
		}
		if !dbutil.FitsMoneyScale(budget) {
			return operation.Fail[int](ErrBudgetPrecision)
		}
		clubs, err := s.repo.List(ctx, db, guildID)
		if err != nil {
			return operation.Abort[int](domainerr.Storage("list clubs", err))
		}
		for _, c := range clubs {
			if err := s.repo.UpdateBudget(ctx, db, guildID, c.ID, budget); err != nil {
				return operation.Abort[int](domainerr.Storage("update budget", err))
			}
		}
		return operation.Succeed(len(clubs))
	})
}

// RenameClub changes a club's name and asks role sync to follow.
func (s *ClubService) RenameClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64, newName string) (*clubdb.Club, error) {
	var oldName string
	club, err := operation.Execute(s.runner, ctx, "RenameClub", fmt.Sprint(clubID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*clubdb.Club, error], error) {
		name, err := NormalizeName(newName)
		if err != nil {
			return operation.Fail[*clubdb.Club](err)
		}
		club, err := s.repo.GetByID(ctx, db, guildID, clubID)
		if err != nil {
			return s.lookup(nil, err)
		}
		oldName = club.Name
		if club.Name == name {
			return operation.Succeed(club)
		}
		if err := s.repo.Rename(ctx, db, guildID, clubID, name); err != nil {
			if errors.Is(err, clubdb.ErrDuplicateName) || errors.Is(err, clubdb.ErrNotFound) {
				return operation.Fail[*clubdb.Club](err)
			}
			return operation.Abort[*clubdb.Club](domainerr.Storage("rename club", err))
		}
		club.Name = name
		return operation.Succeed(club)
	})
	if err != nil {
		return nil, err
	}

	if oldName != club.Name {
		s.emitter.Emit(ctx, events.ClubRenamedV1, string(guildID), events.ClubRenamedPayloadV1{
			GuildID: guildID,
			ClubID:  club.ID,
			OldName: oldName,
			NewName: club.Name,
			RoleID:  club.RoleID,
		})
	}
	return club, nil
}

// DeleteClub removes a club. Its players become free agents in the same
// transaction; matches and transfer history are left untouched.
func (s *ClubService) DeleteClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) (*DeletedClub, error) {
	var released []sharedtypes.DiscordID
	deleted, err := operation.Execute(s.runner, ctx, "DeleteClub", fmt.Sprint(clubID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*DeletedClub, error], error) {
		club, err := s.repo.GetByID(ctx, db, guildID, clubID)
		if err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return operation.Fail[*DeletedClub](err)
			}
			return operation.Abort[*DeletedClub](domainerr.Storage("get club", err))
		}

		released, err = s.roster.ReleaseClub(ctx, db, guildID, clubID)
		if err != nil {
			return operation.Abort[*DeletedClub](domainerr.Storage("release roster", err))
		}
		if err := s.repo.Delete(ctx, db, guildID, clubID); err != nil {
			return operation.Abort[*DeletedClub](domainerr.Storage("delete club", err))
		}
		return operation.Succeed(&DeletedClub{Club: *club, PlayersReleased: len(released)})
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.ClubDeletedV1, string(guildID), events.ClubDeletedPayloadV1{
		GuildID:  guildID,
		ClubID:   deleted.Club.ID,
		Name:     deleted.Club.Name,
		RoleID:   deleted.Club.RoleID,
		Released: released,
	})
	return deleted, nil
}

// SetRoleID records the Discord role created for a club.
func (s *ClubService) SetRoleID(ctx context.Context, guildID sharedtypes.GuildID, clubID int64, roleID *sharedtypes.RoleID) error {
	_, err := operation.Execute(s.runner, ctx, "SetRoleID", fmt.Sprint(clubID), func(ctx context.Context, db bun.IDB) (results.OperationResult[struct{}, error], error) {
		if err := s.repo.SetRoleID(ctx, db, guildID, clubID, roleID); err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return operation.Fail[struct{}](err)
			}
			return operation.Abort[struct{}](domainerr.Storage("set role", err))
		}
		return operation.Succeed(struct{}{})
	})
	return err
}

var _ Service = (*ClubService)(nil)
