package discordgateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/cenkalti/backoff/v4"
)

// ErrInvalidToken is returned when the platform rejects the bot token.
var ErrInvalidToken = errors.New("discord rejected the bot token")

// Connection is a gateway session. *discordgo.Session satisfies it.
type Connection interface {
	Open() error
	Close() error
}

// SupervisorConfig bounds the reconnect loop.
type SupervisorConfig struct {
	MaxAttempts int
	// BaseDelay is the wait before the first retry. It doubles on every attempt.
	BaseDelay time.Duration
}

// Supervisor owns the gateway connection and its reconnect attempt counter.
type Supervisor struct {
	conn   Connection
	cfg    SupervisorConfig
	logger *slog.Logger

	mu        sync.Mutex
	open      bool
	attempts  atomic.Int32
	connected atomic.Bool
}

// NewSupervisor creates a supervisor for conn.
func NewSupervisor(conn Connection, cfg SupervisorConfig, logger *slog.Logger) *Supervisor {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Minute
	}
	return &Supervisor{conn: conn, cfg: cfg, logger: logger}
}

func (s *Supervisor) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.cfg.BaseDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = s.cfg.BaseDelay << s.cfg.MaxAttempts
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(s.cfg.MaxAttempts-1)), ctx)
}

// Start opens the connection, waiting BaseDelay·2^n before retry n. A rejected
// token stops immediately. The attempt counter resets on success.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts.Store(0)

	err := backoff.RetryNotify(func() error {
		n := s.attempts.Add(1)
		s.logger.InfoContext(ctx, "Opening Discord session",
			attr.Int("attempt", int(n)),
			attr.Int("max_attempts", s.cfg.MaxAttempts),
		)
		err := s.conn.Open()
		if err == nil {
			return nil
		}
		if IsUnauthorized(err) {
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrInvalidToken, err))
		}
		return err
	}, s.newBackOff(ctx), func(err error, wait time.Duration) {
		s.logger.WarnContext(ctx, "Discord session failed to open, retrying",
			attr.Int("attempt", s.Attempts()),
			attr.Duration("wait", wait),
			attr.Error(err),
		)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Giving up on Discord session",
			attr.Int("attempts", s.Attempts()),
			attr.Error(err),
		)
		return err
	}

	s.open = true
	s.attempts.Store(0)
	s.connected.Store(true)
	s.logger.InfoContext(ctx, "Discord session open")
	return nil
}

// Stop closes the connection if it is open.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected.Store(false)
	if !s.open {
		return nil
	}
	s.open = false
	return s.conn.Close()
}

// Attempts returns the attempts of the Start in progress, or of the last
// failed one. It is zero once the session is open.
func (s *Supervisor) Attempts() int { return int(s.attempts.Load()) }

// SetConnected records gateway connect and disconnect events.
func (s *Supervisor) SetConnected(v bool) { s.connected.Store(v) }

// Connected reports whether the gateway is currently up.
func (s *Supervisor) Connected() bool { return s.connected.Load() }
