package guildservice

import (
	"context"
	"io"
	"time"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	guilddb "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
)

// Service defines the interface for guild-wide operations.
type Service interface {
	GetSettings(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.Settings, error)
	UpdateSettings(ctx context.Context, guildID sharedtypes.GuildID, updates *guilddb.UpdateFields) (*guilddb.Settings, error)
	BackupGuildData(ctx context.Context, guildID sharedtypes.GuildID) (*Backup, error)
	ExportBackupXLSX(ctx context.Context, backup *Backup, w io.Writer) error
	ResetGuildData(ctx context.Context, guildID sharedtypes.GuildID) (*ResetReport, error)
}

// Backup is a point-in-time copy of every entity of one guild.
type Backup struct {
	ID        string                `json:"id"`
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	CreatedAt time.Time             `json:"created_at"`
	Settings  *guilddb.Settings     `json:"settings,omitempty"`
	Clubs     []clubdb.Club         `json:"clubs"`
	Players   []playerdb.Player     `json:"players"`
	Transfers []transferdb.Transfer `json:"transfers"`
	Matches   []matchdb.Match       `json:"matches"`
}

// ResetReport counts the rows ResetGuildData removed.
type ResetReport struct {
	Transfers int64 `json:"transfers"`
	Matches   int64 `json:"matches"`
	Players   int64 `json:"players"`
	Clubs     int64 `json:"clubs"`
	Settings  int64 `json:"settings"`
}
