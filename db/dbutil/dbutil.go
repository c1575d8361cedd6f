// Package dbutil holds helpers shared by repositories on both supported dialects.
package dbutil

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	// modernc.org/sqlite reports constraint failures in the message only.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsPostgres reports whether db speaks the postgres dialect.
func IsPostgres(db bun.IDB) bool {
	return db.Dialect().Name() == dialect.PG
}

// ForUpdate adds a row lock on postgres. SQLite serializes writers already.
func ForUpdate(q *bun.SelectQuery, db bun.IDB) *bun.SelectQuery {
	if IsPostgres(db) {
		return q.For("UPDATE")
	}
	return q
}

// ForUpdateSkipLocked is ForUpdate for claim queries where competing pollers
// must skip rows another transaction holds.
func ForUpdateSkipLocked(q *bun.SelectQuery, db bun.IDB) *bun.SelectQuery {
	if IsPostgres(db) {
		return q.For("UPDATE SKIP LOCKED")
	}
	return q
}

// Now returns the current time in UTC truncated to seconds, the precision
// every timestamp column is stored at.
func Now() time.Time {
	return Normalize(time.Now())
}

// Normalize converts t to UTC and drops sub-second precision.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// SnapshotTxOptions returns options for a read-only transaction that sees one
// consistent snapshot. SQLite transactions already do, so it gets defaults.
func SnapshotTxOptions(db *bun.DB) *sql.TxOptions {
	if db != nil && IsPostgres(db) {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return &sql.TxOptions{}
}

// MoneyScale is the number of decimal places every money column stores.
const MoneyScale = 2

// FitsMoneyScale reports whether d can be stored without rounding.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}
