package guildservice

import "github.com/Black-And-White-Club/league-bot/app/shared/domainerr"

var (
	// ErrNoUpdates rejects an update that sets nothing.
	ErrNoUpdates = domainerr.New(domainerr.ErrInvalid, "no settings to update")
	// ErrInvalidTimezone rejects unknown IANA zone names.
	ErrInvalidTimezone = domainerr.New(domainerr.ErrInvalid, "unknown timezone")
	// ErrInvalidGuildID rejects an empty guild id.
	ErrInvalidGuildID = domainerr.New(domainerr.ErrInvalid, "guild id is required")
	// ErrNilBackup rejects exporting a missing backup.
	ErrNilBackup = domainerr.New(domainerr.ErrInvalid, "backup is required")
)
