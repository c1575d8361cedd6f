package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/Black-And-White-Club/league-bot/db/dbutil"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a match is not found.
var ErrNotFound = domainerr.New(domainerr.ErrNotFound, "match not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new match repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	match.ScheduledAt = dbutil.Normalize(match.ScheduledAt)
	match.CreatedAt = dbutil.Now()
	if _, err := db.NewInsert().Model(match).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	err := db.NewSelect().
		Model(match).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Match)(nil)).
		Where("guild_id = ?", guildID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, after *time.Time) ([]Match, error) {
	db = r.resolveDB(db)
	var matches []Match
	q := db.NewSelect().
		Model(&matches).
		Where("guild_id = ?", guildID).
		OrderExpr("scheduled_at ASC, id ASC")
	if after != nil {
		q = q.Where("scheduled_at > ?", dbutil.Normalize(*after))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (r *Impl) FindNextBetween(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubA, clubB int64, after time.Time) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	err := db.NewSelect().
		Model(match).
		Where("guild_id = ?", guildID).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.Where("team1_id = ?", clubA).Where("team2_id = ?", clubB)
				}).
				WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.Where("team1_id = ?", clubB).Where("team2_id = ?", clubA)
				})
		}).
		Where("scheduled_at > ?", dbutil.Normalize(after)).
		OrderExpr("scheduled_at ASC, id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find next match: %w", err)
	}
	return match, nil
}

func (r *Impl) ListBetweenTimes(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, from, to time.Time) ([]Match, error) {
	db = r.resolveDB(db)
	var matches []Match
	err := db.NewSelect().
		Model(&matches).
		Where("guild_id = ?", guildID).
		Where("scheduled_at > ?", dbutil.Normalize(from)).
		Where("scheduled_at <= ?", dbutil.Normalize(to)).
		OrderExpr("scheduled_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches in window: %w", err)
	}
	return matches, nil
}

func (r *Impl) ClaimDue(ctx context.Context, db bun.IDB, from, to time.Time) ([]Match, error) {
	db = r.resolveDB(db)
	var candidates []Match
	q := db.NewSelect().
		Model(&candidates).
		Where("reminded = ?", false).
		Where("scheduled_at > ?", dbutil.Normalize(from)).
		Where("scheduled_at <= ?", dbutil.Normalize(to)).
		OrderExpr("scheduled_at ASC, id ASC")
	if err := dbutil.ForUpdateSkipLocked(q, db).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to select due matches: %w", err)
	}

	claimed := make([]Match, 0, len(candidates))
	for _, m := range candidates {
		// The reminded guard makes the flip the claim: a concurrent poller
		// that read the same row updates nothing.
		result, err := db.NewUpdate().
			Model((*Match)(nil)).
			Set("reminded = ?", true).
			Where("id = ?", m.ID).
			Where("reminded = ?", false).
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to claim match %d: %w", m.ID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 1 {
			m.Reminded = true
			claimed = append(claimed, m)
		}
	}
	return claimed, nil
}

func (r *Impl) ListByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]Match, error) {
	return r.List(ctx, db, guildID, nil)
}

func (r *Impl) DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Match)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete guild matches: %w", err)
	}
	return result.RowsAffected()
}
