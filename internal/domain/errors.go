package domain

import "errors"

// Escrow operations fail with one of these sentinels. Handlers map them to
// HTTP status codes; the engine never retries on its own.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAlreadyInitialized   = errors.New("platform already initialized")
	ErrNotInitialized       = errors.New("platform not initialized")
	ErrInvalidEscrowAccount = errors.New("invalid escrow account")

	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrCampaignAlreadyExists = errors.New("campaign already exists")
	ErrInvalidGoal           = errors.New("goal must be positive")
	ErrInvalidMinDonation    = errors.New("invalid minimum donation")

	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrBelowMinimum         = errors.New("contribution below minimum")
	ErrGoalExceeded         = errors.New("contribution exceeds campaign goal")
	ErrGoalNotReached       = errors.New("campaign goal not reached")
	ErrContributionNotFound = errors.New("contribution not found")

	ErrInvalidMilestoneAmount        = errors.New("invalid milestone amount")
	ErrMilestoneAmountNotIncreasing  = errors.New("milestone amount not increasing")
	ErrMilestoneNotFound             = errors.New("milestone not found")
	ErrMilestoneAlreadyCompleted     = errors.New("milestone already completed")
	ErrInsufficientFundsForMilestone = errors.New("insufficient funds for milestone")
	ErrMilestoneNotInSequence        = errors.New("milestone not in sequence")
	ErrMilestoneNotCompleted         = errors.New("milestone not completed")
	ErrCannotWithdrawFutureMilestone = errors.New("cannot withdraw future milestone")
	ErrNoFundsToWithdraw             = errors.New("no funds to withdraw")

	ErrProofNotFound      = errors.New("proof not found")
	ErrProofAlreadyExists = errors.New("proof already exists")

	// ErrCredentialPending is returned when a milestone validated and its
	// state committed, but the credential issuer call failed. The validation
	// stands; issuance is retried later.
	ErrCredentialPending = errors.New("credential issuance pending")

	ErrCredentialNotFound = errors.New("credential not found")
)
