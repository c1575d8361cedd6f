package transferservice

import "github.com/Black-And-White-Club/league-bot/app/shared/domainerr"

const (
	DefaultListLimit = 10
	MaxListLimit     = 20
)

var (
	// ErrSameClub rejects moving a player to the club they already belong to,
	// including free agency to free agency.
	ErrSameClub = domainerr.New(domainerr.ErrConflict, "player already belongs to that club")
	// ErrNegativeFee rejects negative fees.
	ErrNegativeFee = domainerr.New(domainerr.ErrInvalid, "transfer fee cannot be negative")
	// ErrFeePrecision rejects fees with more than two decimal places; the
	// ledger would otherwise round the debit and the credit separately.
	ErrFeePrecision = domainerr.New(domainerr.ErrInvalid, "transfer fee cannot have more than two decimal places")
	// ErrReleaseWithFee rejects a fee on a release to free agency; nobody would pay it.
	ErrReleaseWithFee = domainerr.New(domainerr.ErrInvalid, "a release to free agency cannot carry a fee")
)
