package domain

import "time"

// Proof is an append-only claim justifying a milestone's completion. The uri
// is opaque to the platform; nothing behind it is ever fetched or verified.
type Proof struct {
	ProofID     string    `json:"proof_id"`
	CampaignID  string    `json:"campaign_id"`
	URI         string    `json:"uri"`
	Description string    `json:"description"`
	SubmittedAt time.Time `json:"submitted_at"`
}
