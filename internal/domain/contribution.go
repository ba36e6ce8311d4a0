package domain

// Contribution tracks a contributor's cumulative stake in one campaign, not a
// history of individual payments. It exists from the first contribution until
// refund removes it.
type Contribution struct {
	CampaignID  string `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      int64  `json:"amount"`
}
