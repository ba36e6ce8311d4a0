package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type submitProofRequest struct {
	ProofID     string `json:"proof_id"`
	URI         string `json:"uri"`
	Description string `json:"description"`
}

func (a *App) ProofsSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ProofID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "proof id is required")
		return
	}
	campaignID := chi.URLParam(r, "id")
	if err := a.Escrow.SubmitProof(r.Context(), campaignID, req.ProofID, req.URI, req.Description); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{
		"campaign_id": campaignID,
		"proof_id":    req.ProofID,
	})
}

func (a *App) ProofsGet(w http.ResponseWriter, r *http.Request) {
	proof, err := a.Escrow.GetProof(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "proofID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, proof)
}
