// Package matchscheduler drives PollDueReminders on a fixed interval.
package matchscheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	matchservice "github.com/Black-And-White-Club/league-bot/app/modules/match/application"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
)

// ReminderPoller is the part of the match service the scheduler drives.
type ReminderPoller interface {
	PollDueReminders(ctx context.Context, now time.Time, window time.Duration) ([]matchservice.MatchView, error)
}

// Scheduler runs the reminder poll until stopped.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// pollOnce runs one poll and logs the outcome. Errors never stop the loop.
func pollOnce(ctx context.Context, poller ReminderPoller, now time.Time, window time.Duration, logger *slog.Logger) (int, error) {
	views, err := poller.PollDueReminders(ctx, now, window)
	if err != nil {
		logger.ErrorContext(ctx, "Reminder poll failed", attr.Error(err))
		return 0, err
	}
	if len(views) > 0 {
		logger.InfoContext(ctx, "Reminders claimed", attr.Int("count", len(views)))
	}
	return len(views), nil
}

// TickerScheduler polls from an in-process ticker. It works on every store.
type TickerScheduler struct {
	poller   ReminderPoller
	interval time.Duration
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTickerScheduler creates a TickerScheduler.
func NewTickerScheduler(poller ReminderPoller, interval, window time.Duration, logger *slog.Logger) *TickerScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TickerScheduler{
		poller:   poller,
		interval: interval,
		window:   window,
		logger:   logger.With(attr.String("component", "reminder_ticker")),
		now:      time.Now,
	}
}

// Start polls once immediately, then every interval, until Stop or ctx ends.
func (s *TickerScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.InfoContext(ctx, "Reminder ticker started",
			attr.Duration("interval", s.interval),
			attr.Duration("window", s.window),
		)
		_, _ = pollOnce(ctx, s.poller, s.now(), s.window, s.logger)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = pollOnce(ctx, s.poller, s.now(), s.window, s.logger)
			}
		}
	}()
	return nil
}

// Stop cancels the loop and waits for an in-flight poll to finish.
func (s *TickerScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Scheduler = (*TickerScheduler)(nil)
