package playerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
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

// PlayerService implements the Service interface.
type PlayerService struct {
	repo    playerdb.Repository
	clubs   clubdb.Repository
	emitter *events.Emitter
	runner  *operation.Runner
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(
	repo playerdb.Repository,
	clubs clubdb.Repository,
	emitter *events.Emitter,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *PlayerService {
	return &PlayerService{
		repo:    repo,
		clubs:   clubs,
		emitter: emitter,
		runner:  operation.NewRunner("PlayerService", logger, metrics, tracer, db),
	}
}

func (req *CreatePlayerRequest) normalize() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || utf8.RuneCountInString(req.Name) > 100 {
		return ErrInvalidName
	}
	if req.Value.IsNegative() {
		return ErrNegativeValue
	}
	if !dbutil.FitsMoneyScale(req.Value) {
		return ErrValuePrecision
	}
	req.Position = strings.TrimSpace(req.Position)
	if req.Position == "" {
		req.Position = DefaultPosition
	}
	if req.Age == 0 {
		req.Age = DefaultAge
	}
	if req.Age < 1 || req.Age > 99 {
		return ErrInvalidAge
	}
	return nil
}

// CreatePlayer registers a player, optionally already signed to a club.
func (s *PlayerService) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*playerdb.Player, error) {
	var clubRole *sharedtypes.RoleID
	player, err := operation.Execute(s.runner, ctx, "CreatePlayer", string(req.GuildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*playerdb.Player, error], error) {
		if err := req.normalize(); err != nil {
			return operation.Fail[*playerdb.Player](err)
		}

		if _, err := s.repo.GetByName(ctx, db, req.GuildID, req.Name); err == nil {
			return operation.Fail[*playerdb.Player](playerdb.ErrDuplicateName)
		} else if !errors.Is(err, playerdb.ErrNotFound) {
			return operation.Abort[*playerdb.Player](domainerr.Storage("check player name", err))
		}

		if req.ClubID != nil {
			club, err := s.clubs.GetByID(ctx, db, req.GuildID, *req.ClubID)
			if err != nil {
				if errors.Is(err, clubdb.ErrNotFound) {
					return operation.Fail[*playerdb.Player](err)
				}
				return operation.Abort[*playerdb.Player](domainerr.Storage("get club", err))
			}
			clubRole = club.RoleID
		}

		player := &playerdb.Player{
			GuildID:  req.GuildID,
			Name:     req.Name,
			Value:    req.Value,
			ClubID:   req.ClubID,
			Position: req.Position,
			Age:      req.Age,
			UserID:   req.UserID,
		}
		if err := s.repo.Create(ctx, db, player); err != nil {
			if errors.Is(err, playerdb.ErrDuplicateName) {
				return operation.Fail[*playerdb.Player](err)
			}
			return operation.Abort[*playerdb.Player](domainerr.Storage("create player", err))
		}
		return operation.Succeed(player)
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.PlayerCreatedV1, string(req.GuildID), events.PlayerCreatedPayloadV1{
		GuildID:    req.GuildID,
		PlayerID:   player.ID,
		Name:       player.Name,
		ClubID:     player.ClubID,
		ClubRoleID: clubRole,
		UserID:     player.UserID,
	})
	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, guildID sharedtypes.GuildID, playerID int64) (*playerdb.Player, error) {
	return operation.Execute(s.runner, ctx, "GetPlayer", fmt.Sprint(playerID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*playerdb.Player, error], error) {
		return lookup(s.repo.GetByID(ctx, db, guildID, playerID))
	})
}

func (s *PlayerService) GetPlayerByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (*playerdb.Player, error) {
	return operation.Execute(s.runner, ctx, "GetPlayerByName", name, func(ctx context.Context, db bun.IDB) (results.OperationResult[*playerdb.Player, error], error) {
		return lookup(s.repo.GetByName(ctx, db, guildID, strings.TrimSpace(name)))
	})
}

func lookup(player *playerdb.Player, err error) (results.OperationResult[*playerdb.Player, error], error) {
	if err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return operation.Fail[*playerdb.Player](err)
		}
		return operation.Abort[*playerdb.Player](domainerr.Storage("get player", err))
	}
	return operation.Succeed(player)
}

func (s *PlayerService) ListPlayers(ctx context.Context, guildID sharedtypes.GuildID) ([]playerdb.Player, error) {
	return s.list(ctx, "ListPlayers", string(guildID), func(ctx context.Context, db bun.IDB) ([]playerdb.Player, error) {
		return s.repo.List(ctx, db, guildID)
	})
}

// ListByClub returns a club's squad. Fails with NotFound for an unknown club.
func (s *PlayerService) ListByClub(ctx context.Context, guildID sharedtypes.GuildID, clubID int64) ([]playerdb.Player, error) {
	return operation.Execute(s.runner, ctx, "ListByClub", fmt.Sprint(clubID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]playerdb.Player, error], error) {
		if _, err := s.clubs.GetByID(ctx, db, guildID, clubID); err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return operation.Fail[[]playerdb.Player](err)
			}
			return operation.Abort[[]playerdb.Player](domainerr.Storage("get club", err))
		}
		players, err := s.repo.ListByClub(ctx, db, guildID, clubID)
		if err != nil {
			return operation.Abort[[]playerdb.Player](domainerr.Storage("list club players", err))
		}
		return operation.Succeed(players)
	})
}

func (s *PlayerService) ListFreeAgents(ctx context.Context, guildID sharedtypes.GuildID) ([]playerdb.Player, error) {
	return s.list(ctx, "ListFreeAgents", string(guildID), func(ctx context.Context, db bun.IDB) ([]playerdb.Player, error) {
		return s.repo.ListFreeAgents(ctx, db, guildID)
	})
}

func (s *PlayerService) list(ctx context.Context, op, id string, fn func(context.Context, bun.IDB) ([]playerdb.Player, error)) ([]playerdb.Player, error) {
	return operation.Execute(s.runner, ctx, op, id, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]playerdb.Player, error], error) {
		players, err := fn(ctx, db)
		if err != nil {
			return operation.Abort[[]playerdb.Player](domainerr.Storage(op, err))
		}
		return operation.Succeed(players)
	})
}

// UpdateValue sets a player's market value.
func (s *PlayerService) UpdateValue(ctx context.Context, guildID sharedtypes.GuildID, playerID int64, value decimal.Decimal) (*playerdb.Player, error) {
	return operation.Execute(s.runner, ctx, "UpdateValue", fmt.Sprint(playerID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*playerdb.Player, error], error) {
		if value.IsNegative() {
			return operation.Fail[*playerdb.Player](ErrNegativeValue)
		}
		if !dbutil.FitsMoneyScale(value) {
			return operation.Fail[*playerdb.Player](ErrValuePrecision)
		}
		if err := s.repo.UpdateValue(ctx, db, guildID, playerID, value); err != nil {
			return lookup(nil, err)
		}
		return lookup(s.repo.GetByID(ctx, db, guildID, playerID))
	})
}

// LinkUser attaches or clears the Discord user a player represents.
func (s *PlayerService) LinkUser(ctx context.Context, guildID sharedtypes.GuildID, playerID int64, userID *sharedtypes.DiscordID) error {
	_, err := operation.Execute(s.runner, ctx, "LinkUser", fmt.Sprint(playerID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*playerdb.Player, error], error) {
		if err := s.repo.LinkUser(ctx, db, guildID, playerID, userID); err != nil {
			return lookup(nil, err)
		}
		return operation.Succeed[*playerdb.Player](nil)
	})
	return err
}

// DeletePlayer removes a player. Transfer history keeps its player_id.
func (s *PlayerService) DeletePlayer(ctx context.Context, guildID sharedtypes.GuildID, playerID int64) error {
	_, err := operation.Execute(s.runner, ctx, "DeletePlayer", fmt.Sprint(playerID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*playerdb.Player, error], error) {
		if err := s.repo.Delete(ctx, db, guildID, playerID); err != nil {
			return lookup(nil, err)
		}
		return operation.Succeed[*playerdb.Player](nil)
	})
	return err
}

var _ Service = (*PlayerService)(nil)
