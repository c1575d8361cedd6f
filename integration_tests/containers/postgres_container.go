// Package containers starts throwaway dependencies for integration tests.
package containers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	dbName   = "league"
	user     = "league"
	password = "league"
)

// SetupPostgresContainer starts Postgres and returns the container and a DSN.
// The caller terminates the container.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		if pg != nil {
			if terr := pg.Terminate(ctx); terr != nil {
				log.Printf("failed to terminate postgres container: %v", terr)
			}
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		if terr := pg.Terminate(ctx); terr != nil {
			log.Printf("failed to terminate postgres container: %v", terr)
		}
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}
	log.Printf("Postgres container ready: %s", dsn)
	return pg, dsn, nil
}
