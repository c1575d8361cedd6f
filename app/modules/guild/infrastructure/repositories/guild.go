package guilddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a guild has no settings yet.
var ErrNotFound = domainerr.New(domainerr.ErrNotFound, "guild settings not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new guild settings repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetSettings(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*Settings, error) {
	db = r.resolveDB(db)
	settings := new(Settings)
	err := db.NewSelect().Model(settings).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return settings, nil
}

func (r *Impl) SaveSettings(ctx context.Context, db bun.IDB, settings *Settings) error {
	db = r.resolveDB(db)
	now := dbutil.Now()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now
	if settings.Timezone == "" {
		settings.Timezone = "UTC"
	}
	_, err := db.NewInsert().
		Model(settings).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("admin_role_id = EXCLUDED.admin_role_id").
		Set("notification_channel_id = EXCLUDED.notification_channel_id").
		Set("timezone = EXCLUDED.timezone").
		Set("config = EXCLUDED.config").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save guild settings: %w", err)
	}
	return nil
}

func (r *Impl) DeleteSettings(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Settings)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete guild settings: %w", err)
	}
	return result.RowsAffected()
}
