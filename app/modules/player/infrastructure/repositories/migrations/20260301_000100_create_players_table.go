package playermigrations

import (
	"context"
	"fmt"

	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*playerdb.Player)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}
			if _, err := tx.NewCreateIndex().
				Model((*playerdb.Player)(nil)).
				Index("idx_players_guild_club").
				Column("guild_id", "club_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create players club index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*playerdb.Player)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop players table: %w", err)
		}
		return nil
	})
}
