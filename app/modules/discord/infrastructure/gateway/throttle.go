package discordgateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// ThrottleConfig bounds the call rate and retries.
type ThrottleConfig struct {
	// MinDelay is the minimum time between two calls to the platform.
	MinDelay       time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

// ThrottledRoleClient spaces calls to the platform, serializes calls of the
// same kind and retries transient failures with exponential backoff.
type ThrottledRoleClient struct {
	next    PlatformClient
	limiter *rate.Limiter
	cfg     ThrottleConfig
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewThrottledRoleClient wraps next.
func NewThrottledRoleClient(next PlatformClient, cfg ThrottleConfig, logger *slog.Logger) *ThrottledRoleClient {
	limit := rate.Inf
	if cfg.MinDelay > 0 {
		limit = rate.Every(cfg.MinDelay)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	return &ThrottledRoleClient{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
		logger:  logger,
		locks:   map[string]*sync.Mutex{},
	}
}

func (c *ThrottledRoleClient) lock(op string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[op]
	if !ok {
		l = &sync.Mutex{}
		c.locks[op] = l
	}
	return l
}

func (c *ThrottledRoleClient) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.cfg.InitialBackoff
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.cfg.MaxRetries)), ctx)
}

// do runs fn under the op lock. Failures come back wrapped in ErrExternalSync.
func (c *ThrottledRoleClient) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	l := c.lock(op)
	l.Lock()
	defer l.Unlock()

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		err := fn(ctx)
		if err != nil && IsPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, c.newBackOff(ctx), func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "Discord call failed, retrying",
			attr.String("operation", op),
			attr.Int("attempt", attempt),
			attr.Duration("wait", wait),
			attr.Int("status", StatusCode(err)),
			attr.Error(err),
		)
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domainerr.ErrExternalSync, err)
	}
	return nil
}

func (c *ThrottledRoleClient) EnsureRole(ctx context.Context, guildID sharedtypes.GuildID, name string) (sharedtypes.RoleID, error) {
	var roleID sharedtypes.RoleID
	err := c.do(ctx, "ensure_role", func(ctx context.Context) error {
		var err error
		roleID, err = c.next.EnsureRole(ctx, guildID, name)
		return err
	})
	return roleID, err
}

func (c *ThrottledRoleClient) RenameRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) error {
	return c.do(ctx, "rename_role", func(ctx context.Context) error {
		return c.next.RenameRole(ctx, guildID, roleID, name)
	})
}

func (c *ThrottledRoleClient) DeleteRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error {
	return c.do(ctx, "delete_role", func(ctx context.Context) error {
		return c.next.DeleteRole(ctx, guildID, roleID)
	})
}

func (c *ThrottledRoleClient) AddMemberRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	return c.do(ctx, "add_member_role", func(ctx context.Context) error {
		return c.next.AddMemberRole(ctx, guildID, userID, roleID)
	})
}

func (c *ThrottledRoleClient) RemoveMemberRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	return c.do(ctx, "remove_member_role", func(ctx context.Context) error {
		return c.next.RemoveMemberRole(ctx, guildID, userID, roleID)
	})
}

func (c *ThrottledRoleClient) SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed *discordgo.MessageEmbed) error {
	return c.do(ctx, "send_embed", func(ctx context.Context) error {
		return c.next.SendEmbed(ctx, channelID, embed)
	})
}

var _ PlatformClient = (*ThrottledRoleClient)(nil)
