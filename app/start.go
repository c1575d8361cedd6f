package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
)

const shutdownTimeout = 10 * time.Second

// Start runs the router, every module and the HTTP server until ctx is
// cancelled or a shutdown signal arrives.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Provider.Logger

	ctx, cancel := WithShutdownSignal(ctx)
	defer cancel()

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- app.Router.Run(ctx)
	}()
	select {
	case <-app.Router.Running():
	case err := <-routerErr:
		app.Close()
		return fmt.Errorf("router failed to start: %w", err)
	}

	var wg sync.WaitGroup
	runners := []interface {
		Run(context.Context, *sync.WaitGroup)
	}{
		app.Modules.Club,
		app.Modules.Player,
		app.Modules.Match,
		app.Modules.Guild,
		app.Modules.Discord,
	}
	for _, r := range runners {
		wg.Add(1)
		go r.Run(ctx, &wg)
	}

	app.server.Start()
	logger.InfoContext(ctx, "League bot started")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	case err := <-routerErr:
		if err != nil {
			runErr = fmt.Errorf("router stopped: %w", err)
			logger.Error("Router stopped unexpectedly", attr.Error(err))
		}
		cancel()
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", attr.Error(err))
	}

	app.Close()
	wg.Wait()
	logger.Info("Application shut down gracefully")
	return runErr
}
