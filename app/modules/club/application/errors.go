package clubservice

import "github.com/Black-And-White-Club/league-bot/app/shared/domainerr"

var (
	// ErrInvalidName rejects blank or overlong club names.
	ErrInvalidName = domainerr.New(domainerr.ErrInvalid, "club name must be 1-100 characters")
	// ErrNegativeBudget rejects budgets below zero.
	ErrNegativeBudget = domainerr.New(domainerr.ErrInvalid, "budget cannot be negative")
	// ErrBudgetPrecision rejects budgets with more than two decimal places.
	ErrBudgetPrecision = domainerr.New(domainerr.ErrInvalid, "budget cannot have more than two decimal places")
)
