package guildmigrations

import (
	"context"
	"fmt"

	guilddb "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().Model((*guilddb.Settings)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create guild_settings table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*guilddb.Settings)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop guild_settings table: %w", err)
		}
		return nil
	})
}
