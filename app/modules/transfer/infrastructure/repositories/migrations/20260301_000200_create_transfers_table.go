package transfermigrations

import (
	"context"
	"fmt"

	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*transferdb.Transfer)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create transfers table: %w", err)
			}
			if _, err := tx.NewCreateIndex().
				Model((*transferdb.Transfer)(nil)).
				Index("idx_transfers_guild_time").
				Column("guild_id", "transferred_at").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create transfers time index: %w", err)
			}
			if _, err := tx.NewCreateIndex().
				Model((*transferdb.Transfer)(nil)).
				Index("idx_transfers_player").
				Column("player_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create transfers player index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*transferdb.Transfer)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop transfers table: %w", err)
		}
		return nil
	})
}
