package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	EventBus      EventBusConfig      `yaml:"eventbus"`
	Discord       DiscordConfig       `yaml:"discord"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	RoleSync      RoleSyncConfig      `yaml:"role_sync"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// DatabaseConfig selects the store. Driver is "postgres" or "sqlite";
// for sqlite the DSN is a file path or ":memory:".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// EventBusConfig selects the domain event transport: "memory" or "nats".
type EventBusConfig struct {
	Driver  string `yaml:"driver"`
	NATSURL string `yaml:"nats_url"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token                string        `yaml:"token"`
	Enabled              bool          `yaml:"enabled"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	ReconnectBaseDelay   time.Duration `yaml:"reconnect_base_delay"`
}

// SchedulerConfig controls the reminder poller. Driver is "ticker" or "river";
// river requires the postgres store.
type SchedulerConfig struct {
	Driver         string        `yaml:"driver"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	ReminderWindow time.Duration `yaml:"reminder_window"`
}

// RoleSyncConfig throttles calls to the Discord API.
type RoleSyncConfig struct {
	MinDelay       time.Duration `yaml:"min_delay"`
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
}

// HTTPConfig configures the health server.
type HTTPConfig struct {
	Addr              string  `yaml:"addr"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // json|text
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("EVENTBUS_DRIVER"); v != "" {
		cfg.EventBus.Driver = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.EventBus.NATSURL = v
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
		cfg.Discord.Enabled = true
	}
	if v := os.Getenv("DISCORD_ENABLED"); v != "" {
		cfg.Discord.Enabled = v == "true"
	}
	if v := os.Getenv("SCHEDULER_DRIVER"); v != "" {
		cfg.Scheduler.Driver = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Addr = ":" + v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}

	durations := map[string]*time.Duration{
		"SCHEDULER_POLL_INTERVAL":   &cfg.Scheduler.PollInterval,
		"SCHEDULER_REMINDER_WINDOW": &cfg.Scheduler.ReminderWindow,
		"ROLE_SYNC_MIN_DELAY":       &cfg.RoleSync.MinDelay,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s value: %w", key, err)
			}
			*dst = d
		}
	}
	if v := os.Getenv("ROLE_SYNC_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ROLE_SYNC_MAX_RETRIES value: %w", err)
		}
		cfg.RoleSync.MaxRetries = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.EventBus.Driver == "" {
		c.EventBus.Driver = "memory"
	}
	if c.Discord.MaxReconnectAttempts == 0 {
		c.Discord.MaxReconnectAttempts = 5
	}
	if c.Discord.ReconnectBaseDelay == 0 {
		c.Discord.ReconnectBaseDelay = time.Minute
	}
	if c.Scheduler.Driver == "" {
		c.Scheduler.Driver = "ticker"
	}
	if c.Scheduler.PollInterval == 0 {
		c.Scheduler.PollInterval = time.Minute
	}
	if c.Scheduler.ReminderWindow == 0 {
		c.Scheduler.ReminderWindow = 5 * time.Minute
	}
	if c.RoleSync.MinDelay == 0 {
		c.RoleSync.MinDelay = time.Second
	}
	if c.RoleSync.MaxRetries == 0 {
		c.RoleSync.MaxRetries = 3
	}
	if c.RoleSync.InitialBackoff == 0 {
		c.RoleSync.InitialBackoff = time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":5000"
	}
	if c.HTTP.RequestsPerSecond == 0 {
		c.HTTP.RequestsPerSecond = 5
	}
	if c.HTTP.Burst == 0 {
		c.HTTP.Burst = 10
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "json"
	}
}

// Validate rejects combinations the runtime cannot honour.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.EventBus.Driver {
	case "memory":
	case "nats":
		if c.EventBus.NATSURL == "" {
			return fmt.Errorf("eventbus driver nats requires nats_url")
		}
	default:
		return fmt.Errorf("unsupported eventbus driver %q", c.EventBus.Driver)
	}
	switch c.Scheduler.Driver {
	case "ticker":
	case "river":
		if c.Database.Driver != "postgres" {
			return fmt.Errorf("scheduler driver river requires the postgres database driver")
		}
	default:
		return fmt.Errorf("unsupported scheduler driver %q", c.Scheduler.Driver)
	}
	if c.Discord.Enabled && c.Discord.Token == "" {
		return fmt.Errorf("discord is enabled but no token is configured")
	}
	if c.Scheduler.ReminderWindow < 0 || c.Scheduler.PollInterval < 0 {
		return fmt.Errorf("scheduler durations must be positive")
	}
	return nil
}

// ToObsConfig converts the observability section into observability.Config.
func ToObsConfig(cfg *Config) observability.Config {
	return observability.Config{
		ServiceName:    "league-bot",
		Environment:    cfg.Observability.Environment,
		LogLevel:       cfg.Observability.LogLevel,
		LogFormat:      cfg.Observability.LogFormat,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
	}
}
