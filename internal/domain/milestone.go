package domain

import "time"

// Milestone is an ordered funding checkpoint. Sequence numbers start at 1 and
// are assigned by the ledger, never by the caller. The completion fields are
// written exactly once, by validation.
type Milestone struct {
	CampaignID   string     `json:"campaign_id"`
	Sequence     uint32     `json:"sequence"`
	TargetAmount int64      `json:"target_amount"`
	Description  string     `json:"description"`
	Completed    bool       `json:"completed"`
	ProofID      string     `json:"proof_id,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
