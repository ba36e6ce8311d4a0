package domain

// Campaign is a funding goal plus its accumulated escrow state and milestone
// plan. The id is caller-chosen and unique for the lifetime of the record.
type Campaign struct {
	ID          string `json:"id"`
	Creator     string `json:"creator"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        int64  `json:"goal"`
	MinDonation int64  `json:"min_donation"`
	TotalRaised int64  `json:"total_raised"`
	Supporters  int64  `json:"supporters"`

	// MilestonesCount is the highest milestone sequence created;
	// CurrentMilestone the highest validated (0 = none). The ledger keeps
	// CurrentMilestone <= MilestonesCount at all times.
	MilestonesCount    uint32 `json:"milestones_count"`
	CurrentMilestone   uint32 `json:"current_milestone"`
	WithdrawableAmount int64  `json:"withdrawable_amount"`
}
