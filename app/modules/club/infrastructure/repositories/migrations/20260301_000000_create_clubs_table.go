package clubmigrations

import (
	"context"
	"fmt"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*clubdb.Club)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create clubs table: %w", err)
			}
			if _, err := tx.NewCreateIndex().
				Model((*clubdb.Club)(nil)).
				Index("idx_clubs_guild_id").
				Column("guild_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create clubs guild index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*clubdb.Club)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop clubs table: %w", err)
		}
		return nil
	})
}
