package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/refinance/crowdfund/internal/domain"
)

type createMilestoneRequest struct {
	TargetAmount int64  `json:"target_amount"`
	Description  string `json:"description"`
}

func (a *App) MilestonesCreate(w http.ResponseWriter, r *http.Request) {
	var req createMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	campaignID := chi.URLParam(r, "id")
	sequence, err := a.Escrow.CreateMilestone(r.Context(), campaignID, req.TargetAmount, req.Description)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"campaign_id": campaignID, "sequence": sequence})
}

func (a *App) MilestonesList(w http.ResponseWriter, r *http.Request) {
	milestones, err := a.Escrow.ListMilestones(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": milestones})
}

func (a *App) MilestonesGet(w http.ResponseWriter, r *http.Request) {
	sequence, ok := a.sequenceParam(w, r)
	if !ok {
		return
	}
	milestone, err := a.Escrow.GetMilestone(r.Context(), chi.URLParam(r, "id"), sequence)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, milestone)
}

type validateRequest struct {
	ProofID string `json:"proof_id"`
}

// MilestonesValidate runs the validation gate. A response of 202 means the
// milestone validated but its completion credential is still pending.
func (a *App) MilestonesValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	sequence, ok := a.sequenceParam(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "id")
	err := a.Escrow.ValidateMilestone(r.Context(), campaignID, sequence, req.ProofID)
	if errors.Is(err, domain.ErrCredentialPending) {
		a.json(w, http.StatusAccepted, map[string]any{
			"campaign_id": campaignID,
			"sequence":    sequence,
			"credential":  "pending",
		})
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"campaign_id": campaignID, "sequence": sequence})
}

func (a *App) MilestonesWithdraw(w http.ResponseWriter, r *http.Request) {
	sequence, ok := a.sequenceParam(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "id")
	amount, err := a.Escrow.WithdrawMilestone(r.Context(), campaignID, sequence)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"campaign_id": campaignID,
		"sequence":    sequence,
		"amount":      amount,
	})
}

func (a *App) sequenceParam(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	raw := chi.URLParam(r, "seq")
	sequence, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || sequence == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid milestone sequence")
		return 0, false
	}
	return uint32(sequence), true
}
