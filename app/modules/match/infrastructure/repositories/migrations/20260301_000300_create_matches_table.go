package matchmigrations

import (
	"context"
	"fmt"

	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*matchdb.Match)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create matches table: %w", err)
			}
			indexes := []struct {
				name    string
				columns []string
			}{
				{"idx_matches_guild_time", []string{"guild_id", "scheduled_at"}},
				{"idx_matches_due", []string{"reminded", "scheduled_at"}},
			}
			for _, idx := range indexes {
				if _, err := tx.NewCreateIndex().
					Model((*matchdb.Match)(nil)).
					Index(idx.name).
					Column(idx.columns...).
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create index %s: %w", idx.name, err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*matchdb.Match)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop matches table: %w", err)
		}
		return nil
	})
}
