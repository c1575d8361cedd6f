package playerservice

import "github.com/Black-And-White-Club/league-bot/app/shared/domainerr"

const (
	DefaultPosition = "Unknown"
	DefaultAge      = 25
)

var (
	ErrInvalidName   = domainerr.New(domainerr.ErrInvalid, "player name must be 1-100 characters")
	ErrNegativeValue = domainerr.New(domainerr.ErrInvalid, "player value cannot be negative")
	ErrInvalidAge    = domainerr.New(domainerr.ErrInvalid, "player age must be between 1 and 99")

	ErrValuePrecision = domainerr.New(domainerr.ErrInvalid, "player value cannot have more than two decimal places")
)
