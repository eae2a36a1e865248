package domain

import "errors"

var (
	// ErrInvalidTransition reports state machine misuse (start while
	// running, resume while not paused, queue mutation after start).
	ErrInvalidTransition = errors.New("invalid auction state transition")

	// ErrNotAcceptingBids rejects bids while the auction is not in
	// progress. The client should resync.
	ErrNotAcceptingBids = errors.New("auction is not accepting bids")

	// ErrStaleLot rejects bids naming a lot other than the current one.
	ErrStaleLot = errors.New("bid targets a lot that is not up for auction")

	// ErrBidTooLow rejects bids below the base price or not clearing the
	// current highest bid by the minimum increment.
	ErrBidTooLow = errors.New("bid too low")

	// ErrInsufficientBudget rejects bids above the team's remaining budget.
	ErrInsufficientBudget = errors.New("insufficient budget")

	// ErrBudgetExceeded reports a commit that would drive a team's
	// remaining budget negative. Unreachable given bid-time validation.
	ErrBudgetExceeded = errors.New("budget exceeded")

	// ErrInvariantViolation reports internal consistency failures. The
	// engine aborts the current lot resolution rather than continue with
	// a corrupted ledger.
	ErrInvariantViolation = errors.New("auction invariant violated")

	ErrUnknownTeam = errors.New("unknown team")
	ErrUnknownLot  = errors.New("unknown lot")
	ErrTeamExists  = errors.New("team already registered")
)
