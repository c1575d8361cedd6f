// Package bundb opens the league store and applies every module's migrations.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	clubmigrations "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories/migrations"
	guildmigrations "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories/migrations"
	matchmigrations "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories/migrations"
	playermigrations "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories/migrations"
	transfermigrations "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	_ "modernc.org/sqlite"
)

// Open connects to the configured store and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(ctx, cfg.DSN)
	case "postgres", "":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		if err := sqldb.PingContext(ctx); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: SQLite has a single writer, pragmas are per connection
	// and an in-memory database lives only as long as its connection.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := sqldb.ExecContext(ctx, p); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Module pairs a module name with its migrations.
type Module struct {
	Name       string
	Migrations *migrate.Migrations
}

// Modules lists every module's migrations in dependency order.
func Modules() []Module {
	return []Module{
		{"club", clubmigrations.Migrations},
		{"player", playermigrations.Migrations},
		{"transfer", transfermigrations.Migrations},
		{"match", matchmigrations.Migrations},
		{"guild", guildmigrations.Migrations},
	}
}

// Migrators returns one migrator per module, each with its own bookkeeping
// tables so module histories never collide.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	out := make(map[string]*migrate.Migrator)
	for _, m := range Modules() {
		out[m.Name] = newMigrator(db, m)
	}
	return out
}

func newMigrator(db *bun.DB, m Module) *migrate.Migrator {
	return migrate.NewMigrator(db, m.Migrations,
		migrate.WithTableName("bun_migrations_"+m.Name),
		migrate.WithLocksTableName("bun_migration_locks_"+m.Name),
	)
}

// Migrate initializes and applies every module's migrations in order.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range Modules() {
		migrator := newMigrator(db, m)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", m.Name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.DebugContext(ctx, "No new migrations", attr.String("module", m.Name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			attr.String("module", m.Name),
			attr.String("group", group.String()),
		)
	}
	return nil
}
