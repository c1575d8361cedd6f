package stats

import (
	"context"

	statsservice "github.com/Black-And-White-Club/league-bot/app/modules/stats/application"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/uptrace/bun"
)

// Module represents the stats module. It only reads, so it has no
// subscribers and nothing to run.
type Module struct {
	StatsService statsservice.Service
}

// NewStatsModule creates the stats module over the other modules' repositories.
func NewStatsModule(ctx context.Context, obs observability.Observability, db *bun.DB, repos statsservice.Repositories) *Module {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "stats.NewStatsModule called")

	return &Module{
		StatsService: statsservice.NewStatsService(repos, logger, obs.Registry.Metrics, obs.Registry.Tracer, db),
	}
}
