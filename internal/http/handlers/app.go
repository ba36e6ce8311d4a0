package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/refinance/crowdfund/internal/credential"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/escrow"
)

// App is the handler container: thin marshaling over the escrow core and the
// credential ledger. No business rules live here.
type App struct {
	Escrow      *escrow.Service
	Credentials *credential.Ledger
	Log         zerolog.Logger
}

func NewApp(escrowSvc *escrow.Service, credentials *credential.Ledger, log zerolog.Logger) *App {
	return &App{Escrow: escrowSvc, Credentials: credentials, Log: log}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, msg string) {
	a.json(w, code, map[string]string{"error": slug, "message": msg})
}

// errorStatus maps every domain sentinel to an HTTP status and a stable slug.
var errorStatus = []struct {
	err    error
	status int
	slug   string
}{
	{domain.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{domain.ErrNotInitialized, http.StatusConflict, "platform_not_initialized"},
	{domain.ErrAlreadyInitialized, http.StatusConflict, "platform_already_initialized"},

	{domain.ErrCampaignNotFound, http.StatusNotFound, "campaign_not_found"},
	{domain.ErrMilestoneNotFound, http.StatusNotFound, "milestone_not_found"},
	{domain.ErrProofNotFound, http.StatusNotFound, "proof_not_found"},
	{domain.ErrContributionNotFound, http.StatusNotFound, "contribution_not_found"},
	{domain.ErrCredentialNotFound, http.StatusNotFound, "credential_not_found"},

	{domain.ErrCampaignAlreadyExists, http.StatusConflict, "campaign_already_exists"},
	{domain.ErrProofAlreadyExists, http.StatusConflict, "proof_already_exists"},
	{domain.ErrMilestoneAlreadyCompleted, http.StatusConflict, "milestone_already_completed"},
	{domain.ErrMilestoneNotInSequence, http.StatusConflict, "milestone_not_in_sequence"},
	{domain.ErrMilestoneNotCompleted, http.StatusConflict, "milestone_not_completed"},
	{domain.ErrCannotWithdrawFutureMilestone, http.StatusConflict, "cannot_withdraw_future_milestone"},
	{domain.ErrInsufficientFundsForMilestone, http.StatusConflict, "insufficient_funds_for_milestone"},
	{domain.ErrGoalExceeded, http.StatusConflict, "goal_exceeded"},
	{domain.ErrGoalNotReached, http.StatusConflict, "goal_not_reached"},
	{domain.ErrNoFundsToWithdraw, http.StatusConflict, "no_funds_to_withdraw"},

	{domain.ErrInvalidEscrowAccount, http.StatusBadRequest, "invalid_escrow_account"},
	{domain.ErrInvalidGoal, http.StatusBadRequest, "invalid_goal"},
	{domain.ErrInvalidMinDonation, http.StatusBadRequest, "invalid_min_donation"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{domain.ErrBelowMinimum, http.StatusBadRequest, "below_minimum"},
	{domain.ErrInvalidMilestoneAmount, http.StatusBadRequest, "invalid_milestone_amount"},
	{domain.ErrMilestoneAmountNotIncreasing, http.StatusBadRequest, "milestone_amount_not_increasing"},
}

// fail translates a core error into the API's error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	for _, entry := range errorStatus {
		if errors.Is(err, entry.err) {
			a.error(w, entry.status, entry.slug, entry.err.Error())
			return
		}
	}
	a.Log.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
	a.error(w, http.StatusInternalServerError, "internal", "internal error")
}
