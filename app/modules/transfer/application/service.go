package transferservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/operation"
	"github.com/Black-And-White-Club/league-bot/app/shared/results"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// TransferService implements the Service interface.
type TransferService struct {
	repo    transferdb.Repository
	players playerdb.Repository
	clubs   clubdb.Repository
	emitter *events.Emitter
	runner  *operation.Runner
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	repo transferdb.Repository,
	players playerdb.Repository,
	clubs clubdb.Repository,
	emitter *events.Emitter,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *TransferService {
	return &TransferService{
		repo:    repo,
		players: players,
		clubs:   clubs,
		emitter: emitter,
		runner:  operation.NewRunner("TransferService", logger, metrics, tracer, db),
	}
}

// Transfer moves a player and settles the fee in one transaction.
//
// The destination pays whenever it is a club; the origin is credited only when
// the destination paid. Signing a free agent therefore costs the fee, and a
// release to free agency must be free. The debit is conditional on the budget
// covering the fee, so an overdraft is rejected before anything changes.
// Both club rows are locked in id order before either budget moves, so two
// transfers between the same clubs in opposite directions queue instead of
// deadlocking.
func (s *TransferService) Transfer(ctx context.Context, req Request) (*Receipt, error) {
	var player *playerdb.Player
	receipt, err := operation.Execute(s.runner, ctx, "Transfer", fmt.Sprint(req.PlayerID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*Receipt, error], error) {
		if req.Fee.IsNegative() {
			return operation.Fail[*Receipt](ErrNegativeFee)
		}
		if !dbutil.FitsMoneyScale(req.Fee) {
			return operation.Fail[*Receipt](ErrFeePrecision)
		}
		if req.ToClubID == nil && req.Fee.IsPositive() {
			return operation.Fail[*Receipt](ErrReleaseWithFee)
		}

		var err error
		player, err = s.players.GetByIDForUpdate(ctx, db, req.GuildID, req.PlayerID)
		if err != nil {
			return failOrAbort[*Receipt](err, playerdb.ErrNotFound, "get player")
		}

		from := player.ClubID
		if sameClub(from, req.ToClubID) {
			return operation.Fail[*Receipt](ErrSameClub)
		}

		ids := make([]int64, 0, 2)
		if from != nil {
			ids = append(ids, *from)
		}
		if req.ToClubID != nil {
			ids = append(ids, *req.ToClubID)
		}
		clubs, err := s.clubs.GetByIDsForUpdate(ctx, db, req.GuildID, ids)
		if err != nil {
			return operation.Abort[*Receipt](domainerr.Storage("lock clubs", err))
		}
		for _, id := range ids {
			if _, ok := clubs[id]; !ok {
				return operation.Fail[*Receipt](clubdb.ErrNotFound)
			}
		}

		if req.ToClubID != nil && req.Fee.IsPositive() {
			if err := s.clubs.Debit(ctx, db, req.GuildID, *req.ToClubID, req.Fee); err != nil {
				return failOrAbort[*Receipt](err, clubdb.ErrInsufficientBudget, "debit destination")
			}
			if from != nil {
				if err := s.clubs.Credit(ctx, db, req.GuildID, *from, req.Fee); err != nil {
					return operation.Abort[*Receipt](domainerr.Storage("credit origin", err))
				}
			}
		}

		if err := s.players.MoveToClub(ctx, db, req.GuildID, player.ID, from, req.ToClubID); err != nil {
			return failOrAbort[*Receipt](err, playerdb.ErrClubChanged, "move player")
		}

		record := transferdb.Transfer{
			GuildID:       req.GuildID,
			PlayerID:      player.ID,
			FromClubID:    from,
			ToClubID:      req.ToClubID,
			Fee:           req.Fee,
			TransferredAt: dbutil.Now(),
		}
		if err := s.repo.Create(ctx, db, &record); err != nil {
			return operation.Abort[*Receipt](domainerr.Storage("record transfer", err))
		}

		after, err := s.clubs.GetByIDs(ctx, db, req.GuildID, ids)
		if err != nil {
			return operation.Abort[*Receipt](domainerr.Storage("reload clubs", err))
		}
		receipt := &Receipt{Transfer: record, PlayerName: player.Name}
		if from != nil {
			receipt.FromClub = after[*from]
		}
		if req.ToClubID != nil {
			receipt.ToClub = after[*req.ToClubID]
		}
		return operation.Succeed(receipt)
	})
	if err != nil {
		return nil, err
	}

	payload := events.PlayerTransferredPayloadV1{
		GuildID:    req.GuildID,
		TransferID: receipt.Transfer.ID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		UserID:     player.UserID,
		FromClubID: receipt.Transfer.FromClubID,
		ToClubID:   receipt.Transfer.ToClubID,
		Fee:        receipt.Transfer.Fee,
		OccurredAt: receipt.Transfer.TransferredAt,
	}
	if receipt.FromClub != nil {
		payload.FromRoleID = receipt.FromClub.RoleID
	}
	if receipt.ToClub != nil {
		payload.ToRoleID = receipt.ToClub.RoleID
	}
	s.emitter.Emit(ctx, events.PlayerTransferredV1, string(req.GuildID), payload)
	return receipt, nil
}

// ListTransfers returns recent transfer activity. limit is clamped to
// [1, MaxListLimit]; zero means DefaultListLimit.
func (s *TransferService) ListTransfers(ctx context.Context, guildID sharedtypes.GuildID, limit int) ([]transferdb.TransferView, error) {
	switch {
	case limit == 0:
		limit = DefaultListLimit
	case limit < 1:
		limit = 1
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return operation.Execute(s.runner, ctx, "ListTransfers", string(guildID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]transferdb.TransferView, error], error) {
		views, err := s.repo.ListRecent(ctx, db, guildID, limit)
		if err != nil {
			return operation.Abort[[]transferdb.TransferView](domainerr.Storage("list transfers", err))
		}
		return operation.Succeed(views)
	})
}

// ListPlayerHistory returns a player's transfers, oldest first.
func (s *TransferService) ListPlayerHistory(ctx context.Context, guildID sharedtypes.GuildID, playerID int64) ([]transferdb.TransferView, error) {
	return operation.Execute(s.runner, ctx, "ListPlayerHistory", fmt.Sprint(playerID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]transferdb.TransferView, error], error) {
		if _, err := s.players.GetByID(ctx, db, guildID, playerID); err != nil {
			return failOrAbort[[]transferdb.TransferView](err, playerdb.ErrNotFound, "get player")
		}
		views, err := s.repo.ListByPlayer(ctx, db, guildID, playerID)
		if err != nil {
			return operation.Abort[[]transferdb.TransferView](domainerr.Storage("list player transfers", err))
		}
		return operation.Succeed(views)
	})
}

func sameClub(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// failOrAbort reports err as a domain failure when it is the expected one and
// as a storage failure otherwise.
func failOrAbort[S any](err, expected error, op string) (results.OperationResult[S, error], error) {
	if errors.Is(err, expected) {
		return operation.Fail[S](err)
	}
	return operation.Abort[S](domainerr.Storage(op, err))
}

var _ Service = (*TransferService)(nil)
