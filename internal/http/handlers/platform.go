package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/domain"
)

type initializeRequest struct {
	EscrowAccount    string `json:"escrow_account"`
	IssueCredentials bool   `json:"issue_credentials"`
}

// PlatformInitialize installs the platform configuration with the caller as
// administrator.
func (a *App) PlatformInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	cfg := domain.PlatformConfig{
		Admin:            auth.Caller(r.Context()),
		EscrowAccount:    req.EscrowAccount,
		IssueCredentials: req.IssueCredentials,
	}
	if err := a.Escrow.Initialize(r.Context(), cfg); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"admin": cfg.Admin})
}
