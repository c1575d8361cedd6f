package matchservice

import "github.com/Black-And-White-Club/league-bot/app/shared/domainerr"

var (
	// ErrSameClub rejects a club playing itself.
	ErrSameClub = domainerr.New(domainerr.ErrConflict, "a club cannot play itself")
	// ErrPastDate rejects kickoffs at or before now.
	ErrPastDate = domainerr.New(domainerr.ErrInvalid, "kickoff must be in the future")
	// ErrUnparsableKickoff is returned by ParseKickoff.
	ErrUnparsableKickoff = domainerr.New(domainerr.ErrInvalid, "could not understand the kickoff time")
	// ErrInvalidWindow rejects non-positive lookahead windows.
	ErrInvalidWindow = domainerr.New(domainerr.ErrInvalid, "window must be positive")
)
