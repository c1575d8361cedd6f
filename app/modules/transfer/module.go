package transfer

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	transferservice "github.com/Black-And-White-Club/league-bot/app/modules/transfer/application"
	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the transfer module.
type Module struct {
	TransferService transferservice.Service
	Repository      transferdb.Repository
}

// NewTransferModule creates the transfer module.
func NewTransferModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	players playerdb.Repository,
	clubs clubdb.Repository,
	publisher message.Publisher,
) *Module {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "transfer.NewTransferModule initializing")

	repo := transferdb.NewRepository(db)
	service := transferservice.NewTransferService(
		repo,
		players,
		clubs,
		events.NewEmitter(publisher, logger),
		logger,
		obs.Registry.Metrics,
		obs.Registry.Tracer,
		db,
	)
	return &Module{TransferService: service, Repository: repo}
}
