// Package notify emits the platform's typed events. Emission is
// fire-and-forget: failures are logged by the emitter, never surfaced to the
// operation that published.
package notify

import (
	"context"
	"time"
)

type Event interface {
	// Topic names the event family, stable across releases.
	Topic() string
}

type Bus interface {
	Publish(ctx context.Context, event Event)
}

type PlatformInitialized struct {
	Admin         string `json:"admin"`
	EscrowAccount string `json:"escrow_account"`
}

func (PlatformInitialized) Topic() string { return "platform_initialized" }

type CampaignCreated struct {
	CampaignID string `json:"campaign_id"`
	Creator    string `json:"creator"`
	Goal       int64  `json:"goal"`
}

func (CampaignCreated) Topic() string { return "campaign_created" }

type ContributionAdded struct {
	CampaignID  string `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      int64  `json:"amount"`
}

func (ContributionAdded) Topic() string { return "contribution_added" }

type ProofLogged struct {
	CampaignID string `json:"campaign_id"`
	ProofID    string `json:"proof_id"`
	URI        string `json:"uri"`
}

func (ProofLogged) Topic() string { return "proof_logged" }

type MilestoneCreated struct {
	CampaignID   string `json:"campaign_id"`
	Sequence     uint32 `json:"sequence"`
	TargetAmount int64  `json:"target_amount"`
}

func (MilestoneCreated) Topic() string { return "milestone_created" }

type MilestoneCompleted struct {
	CampaignID string `json:"campaign_id"`
	Sequence   uint32 `json:"sequence"`
	ProofID    string `json:"proof_id"`
}

func (MilestoneCompleted) Topic() string { return "milestone_completed" }

type MilestoneWithdrawal struct {
	CampaignID string `json:"campaign_id"`
	Sequence   uint32 `json:"sequence"`
	Amount     int64  `json:"amount"`
}

func (MilestoneWithdrawal) Topic() string { return "milestone_withdrawal" }

type CampaignWithdrawn struct {
	CampaignID string `json:"campaign_id"`
	Creator    string `json:"creator"`
	Amount     int64  `json:"amount"`
}

func (CampaignWithdrawn) Topic() string { return "campaign_withdrawn" }

type ContributionRefunded struct {
	CampaignID  string `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      int64  `json:"amount"`
}

func (ContributionRefunded) Topic() string { return "contribution_refunded" }

type CredentialIssued struct {
	CredentialID string    `json:"credential_id"`
	Recipient    string    `json:"recipient"`
	IssuedAt     time.Time `json:"issued_at"`
}

func (CredentialIssued) Topic() string { return "credential_issued" }
