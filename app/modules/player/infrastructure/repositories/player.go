package playerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a player is not found.
	ErrNotFound = domainerr.New(domainerr.ErrNotFound, "player not found")
	// ErrDuplicateName is returned when the guild already has a player with that name.
	ErrDuplicateName = domainerr.New(domainerr.ErrConflict, "player name already exists")
	// ErrClubChanged is returned by MoveToClub when the player's club moved underneath it.
	ErrClubChanged = domainerr.New(domainerr.ErrConflict, "player club changed concurrently")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new player repository.
func NewRepository(db bun.IDB) *Impl {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Player, error) {
	db = r.resolveDB(db)
	return r.scanOne(ctx, db.NewSelect().Model((*Player)(nil)).Where("guild_id = ?", guildID).Where("id = ?", id))
}

func (r *Impl) GetByIDForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Player, error) {
	db = r.resolveDB(db)
	q := db.NewSelect().Model((*Player)(nil)).Where("guild_id = ?", guildID).Where("id = ?", id)
	return r.scanOne(ctx, dbutil.ForUpdate(q, db))
}

func (r *Impl) GetByName(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*Player, error) {
	db = r.resolveDB(db)
	return r.scanOne(ctx, db.NewSelect().Model((*Player)(nil)).Where("guild_id = ?", guildID).Where("name = ?", name))
}

func (r *Impl) scanOne(ctx context.Context, q *bun.SelectQuery) (*Player, error) {
	player := new(Player)
	if err := q.Scan(ctx, player); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("guild_id = ?", guildID).
		OrderExpr("value DESC, name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (r *Impl) ListByClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("guild_id = ?", guildID).
		Where("club_id = ?", clubID).
		OrderExpr("value DESC, name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list club players: %w", err)
	}
	return players, nil
}

func (r *Impl) ListFreeAgents(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("guild_id = ?", guildID).
		Where("club_id IS NULL").
		OrderExpr("value DESC, name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list free agents: %w", err)
	}
	return players, nil
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	now := dbutil.Now()
	player.CreatedAt = now
	player.UpdatedAt = now
	if _, err := db.NewInsert().Model(player).Returning("id").Exec(ctx); err != nil {
		if dbutil.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *Impl) UpdateValue(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, value decimal.Decimal) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("value = ?", value).
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update player value: %w", err)
	}
	return expectOneRow(result, ErrNotFound)
}

func (r *Impl) LinkUser(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, userID *sharedtypes.DiscordID) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("user_id = ?", userID).
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to link player user: %w", err)
	}
	return expectOneRow(result, ErrNotFound)
}

func (r *Impl) MoveToClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, from, to *int64) error {
	db = r.resolveDB(db)
	q := db.NewUpdate().
		Model((*Player)(nil)).
		Set("club_id = ?", to).
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("id = ?", id)
	if from == nil {
		q = q.Where("club_id IS NULL")
	} else {
		q = q.Where("club_id = ?", *from)
	}
	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to move player: %w", err)
	}
	return expectOneRow(result, ErrClubChanged)
}

func (r *Impl) ReleaseClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]sharedtypes.DiscordID, error) {
	db = r.resolveDB(db)
	var users []sharedtypes.DiscordID
	err := db.NewSelect().
		Model((*Player)(nil)).
		Column("user_id").
		Where("guild_id = ?", guildID).
		Where("club_id = ?", clubID).
		Where("user_id IS NOT NULL").
		OrderExpr("id ASC").
		Scan(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to read club roster: %w", err)
	}

	_, err = db.NewUpdate().
		Model((*Player)(nil)).
		Set("club_id = NULL").
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("club_id = ?", clubID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to release club roster: %w", err)
	}
	return users, nil
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Player)(nil)).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return expectOneRow(result, ErrNotFound)
}

func (r *Impl) DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Player)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete guild players: %w", err)
	}
	return result.RowsAffected()
}

func expectOneRow(result sql.Result, missing error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return missing
	}
	return nil
}

var _ Repository = (*Impl)(nil)
