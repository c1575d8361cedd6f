package transferdb

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new transfer repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, transfer *Transfer) error {
	db = r.resolveDB(db)
	if transfer.TransferredAt.IsZero() {
		transfer.TransferredAt = dbutil.Now()
	}
	if _, err := db.NewInsert().Model(transfer).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to record transfer: %w", err)
	}
	return nil
}

func (r *Impl) viewQuery(db bun.IDB, guildID sharedtypes.GuildID) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("transfers AS t").
		ColumnExpr("t.id, t.player_id, t.from_club_id, t.to_club_id, t.fee, t.transferred_at").
		ColumnExpr("p.name AS player_name").
		ColumnExpr("fc.name AS from_club_name").
		ColumnExpr("tc.name AS to_club_name").
		Join("LEFT JOIN players AS p ON p.id = t.player_id").
		Join("LEFT JOIN clubs AS fc ON fc.id = t.from_club_id").
		Join("LEFT JOIN clubs AS tc ON tc.id = t.to_club_id").
		Where("t.guild_id = ?", guildID)
}

func (r *Impl) ListRecent(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, limit int) ([]TransferView, error) {
	db = r.resolveDB(db)
	var views []TransferView
	err := r.viewQuery(db, guildID).
		OrderExpr("t.transferred_at DESC, t.id DESC").
		Limit(limit).
		Scan(ctx, &views)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transfers: %w", err)
	}
	return views, nil
}

func (r *Impl) ListByPlayer(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, playerID int64) ([]TransferView, error) {
	db = r.resolveDB(db)
	var views []TransferView
	err := r.viewQuery(db, guildID).
		Where("t.player_id = ?", playerID).
		OrderExpr("t.transferred_at ASC, t.id ASC").
		Scan(ctx, &views)
	if err != nil {
		return nil, fmt.Errorf("failed to list player transfers: %w", err)
	}
	return views, nil
}

func (r *Impl) ListByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Transfer, error) {
	db = r.resolveDB(db)
	var transfers []Transfer
	err := db.NewSelect().
		Model(&transfers).
		Where("guild_id = ?", guildID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild transfers: %w", err)
	}
	return transfers, nil
}

func (r *Impl) DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Transfer)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete guild transfers: %w", err)
	}
	return result.RowsAffected()
}
