package matchscheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const riverQueue = "match"

// ReminderPollArgs is the periodic job that claims due reminders.
type ReminderPollArgs struct{}

// Kind returns the job type identifier for River.
func (ReminderPollArgs) Kind() string { return "match_reminder_poll" }

// InsertOpts routes the job to the match queue. A failed poll is not
// retried; the next period covers it.
func (ReminderPollArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       riverQueue,
		MaxAttempts: 1,
	}
}

type reminderPollWorker struct {
	river.WorkerDefaults[ReminderPollArgs]
	poller ReminderPoller
	window time.Duration
	logger *slog.Logger
}

func (w *reminderPollWorker) Work(ctx context.Context, job *river.Job[ReminderPollArgs]) error {
	_, err := pollOnce(ctx, w.poller, time.Now(), w.window, w.logger.With(attr.Int64("job_id", job.ID)))
	return err
}

// RiverScheduler runs the poll as a River periodic job. Only the elected
// leader enqueues periodic jobs, so several bot instances share one cadence.
type RiverScheduler struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRiverScheduler connects to Postgres, applies River's own migrations and
// builds the client.
func NewRiverScheduler(ctx context.Context, dsn string, poller ReminderPoller, interval, window time.Duration, logger *slog.Logger) (*RiverScheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(attr.String("component", "river_queue"))

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN for River: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver := riverpgxv5.New(pool)
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run River migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &reminderPollWorker{poller: poller, window: window, logger: logger})

	client, err := river.NewClient(driver, &river.Config{
		Queues: map[string]river.QueueConfig{
			riverQueue: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(interval),
				func() (river.JobArgs, *river.InsertOpts) {
					return ReminderPollArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	logger.InfoContext(ctx, "River reminder scheduler initialized", attr.Duration("interval", interval))
	return &RiverScheduler{client: client, pool: pool, logger: logger}, nil
}

// Start starts the River client.
func (s *RiverScheduler) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.InfoContext(ctx, "River reminder scheduler started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *RiverScheduler) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

var _ Scheduler = (*RiverScheduler)(nil)
