package statsservice

import "github.com/Black-And-White-Club/league-bot/app/shared/domainerr"

const (
	DefaultLimit = 10
	MaxLimit     = 25
	// OverviewUpcoming caps the fixtures listed in an overview.
	OverviewUpcoming = 5
)

var (
	// ErrSameClub rejects comparing a club with itself.
	ErrSameClub = domainerr.New(domainerr.ErrInvalid, "cannot compare a club with itself")
	// ErrClubNotFound is returned when a club is not in the guild.
	ErrClubNotFound = domainerr.New(domainerr.ErrNotFound, "club not found")
)

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
