package clubdb

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
	// ErrNotFound is returned when a club is not found.
	ErrNotFound = domainerr.New(domainerr.ErrNotFound, "club not found")
	// ErrDuplicateName is returned when the guild already has a club with that name.
	ErrDuplicateName = domainerr.New(domainerr.ErrConflict, "club name already exists")
	// ErrInsufficientBudget is returned by Debit when the budget does not cover the amount.
	ErrInsufficientBudget = domainerr.New(domainerr.ErrInsufficientFunds, "club budget too low")
	// ErrBudgetChanged is returned when a budget moved between its read and its write.
	ErrBudgetChanged = domainerr.New(domainerr.ErrConflict, "club budget changed concurrently")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new club repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by id: %w", err)
	}
	return club, nil
}

func (r *Impl) GetByName(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("guild_id = ?", guildID).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by name: %w", err)
	}
	return club, nil
}

func (r *Impl) GetByIDs(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*Club, error) {
	out := make(map[int64]*Club, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	db = r.resolveDB(db)
	var clubs []Club
	err := db.NewSelect().
		Model(&clubs).
		Where("guild_id = ?", guildID).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clubs by ids: %w", err)
	}
	for i := range clubs {
		out[clubs[i].ID] = &clubs[i]
	}
	return out, nil
}

func (r *Impl) GetByIDsForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*Club, error) {
	out := make(map[int64]*Club, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	db = r.resolveDB(db)
	var clubs []Club
	q := db.NewSelect().
		Model(&clubs).
		Where("guild_id = ?", guildID).
		Where("id IN (?)", bun.In(ids)).
		OrderExpr("id ASC")
	if err := dbutil.ForUpdate(q, db).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to lock clubs: %w", err)
	}
	for i := range clubs {
		out[clubs[i].ID] = &clubs[i]
	}
	return out, nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Club, error) {
	db = r.resolveDB(db)
	var clubs []Club
	err := db.NewSelect().
		Model(&clubs).
		Where("guild_id = ?", guildID).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	now := dbutil.Now()
	club.CreatedAt = now
	club.UpdatedAt = now
	if _, err := db.NewInsert().Model(club).Returning("id").Exec(ctx); err != nil {
		if dbutil.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

func (r *Impl) UpdateBudget(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, budget decimal.Decimal) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Club)(nil)).
		Set("budget = ?", budget).
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update club budget: %w", err)
	}
	return expectOneRow(result, ErrNotFound)
}

func (r *Impl) Rename(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, name string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Club)(nil)).
		Set("name = ?", name).
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		if dbutil.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to rename club: %w", err)
	}
	return expectOneRow(result, ErrNotFound)
}

func (r *Impl) SetRoleID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, roleID *sharedtypes.RoleID) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Club)(nil)).
		Set("role_id = ?", roleID).
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set club role: %w", err)
	}
	return expectOneRow(result, ErrNotFound)
}

func (r *Impl) Debit(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error {
	return r.adjust(ctx, db, guildID, id, amount.Neg())
}

func (r *Impl) Credit(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error {
	return r.adjust(ctx, db, guildID, id, amount)
}

// adjust adds delta to a budget. The sum is computed in decimal and written
// back as an exact value guarded on the value read, so the column never does
// the arithmetic; SQLite would do it in floating point.
func (r *Impl) adjust(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, delta decimal.Decimal) error {
	db = r.resolveDB(db)
	club := new(Club)
	q := db.NewSelect().
		Model(club).
		Column("id", "budget").
		Where("guild_id = ?", guildID).
		Where("id = ?", id)
	if err := dbutil.ForUpdate(q, db).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read club budget: %w", err)
	}

	next := club.Budget.Add(delta)
	if next.IsNegative() {
		return ErrInsufficientBudget
	}
	result, err := db.NewUpdate().
		Model((*Club)(nil)).
		Set("budget = ?", next).
		Set("updated_at = ?", dbutil.Now()).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Where("budget = ?", club.Budget).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to adjust club budget: %w", err)
	}
	return expectOneRow(result, ErrBudgetChanged)
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Club)(nil)).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	return expectOneRow(result, ErrNotFound)
}

func (r *Impl) DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Club)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete guild clubs: %w", err)
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
