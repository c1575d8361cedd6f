// Package testutils provides an in-memory league store and data builders for tests.
package testutils

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/league-bot/config"
	"github.com/Black-And-White-Club/league-bot/db/bundb"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewTestDB opens a fresh in-memory SQLite store with every migration applied.
// It is closed when the test ends.
func NewTestDB(t testing.TB) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := bundb.Open(ctx, config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, bundb.Migrate(ctx, db, slog.New(slog.DiscardHandler)), "migrate")
	return db
}
