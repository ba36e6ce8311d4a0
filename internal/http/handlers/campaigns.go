package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/escrow"
)

type createCampaignRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        int64  `json:"goal"`
	MinDonation int64  `json:"min_donation"`
}

func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "campaign id is required")
		return
	}
	err := a.Escrow.CreateCampaign(r.Context(), escrow.CreateCampaignParams{
		ID:          req.ID,
		Creator:     auth.Caller(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		MinDonation: req.MinDonation,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": req.ID})
}

func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Escrow.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, campaign)
}

type contributeRequest struct {
	Amount int64 `json:"amount"`
}

func (a *App) ContributionsCreate(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	campaignID := chi.URLParam(r, "id")
	contributor := auth.Caller(r.Context())
	if err := a.Escrow.Contribute(r.Context(), campaignID, contributor, req.Amount); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"campaign_id": campaignID,
		"contributor": contributor,
		"amount":      req.Amount,
	})
}

func (a *App) RefundsCreate(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	contributor := auth.Caller(r.Context())
	amount, err := a.Escrow.Refund(r.Context(), campaignID, contributor)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"campaign_id": campaignID,
		"contributor": contributor,
		"amount":      amount,
	})
}

// CampaignsWithdraw is the all-or-nothing withdrawal for campaigns run
// without milestones; the campaign record is gone afterward.
func (a *App) CampaignsWithdraw(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	amount, err := a.Escrow.WithdrawCampaign(r.Context(), campaignID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"campaign_id": campaignID, "amount": amount})
}
