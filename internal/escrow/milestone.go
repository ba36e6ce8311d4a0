package escrow

import (
	"context"
	"errors"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
)

// CreateMilestone appends the next milestone in the campaign's plan and
// returns its sequence number. Targets are cumulative and must strictly
// increase; the ledger, never the caller, assigns sequence numbers.
func (s *Service) CreateMilestone(ctx context.Context, campaignID string, targetAmount int64, description string) (uint32, error) {
	var sequence uint32
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		campaign, err := getCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		if err := auth.Require(ctx, campaign.Creator); err != nil {
			return err
		}
		if targetAmount <= 0 || targetAmount > campaign.Goal {
			return domain.ErrInvalidMilestoneAmount
		}

		sequence = campaign.MilestonesCount + 1
		if sequence > 1 {
			prev, err := getMilestone(ctx, tx, campaignID, sequence-1)
			if err != nil {
				return err
			}
			if targetAmount <= prev.TargetAmount {
				return domain.ErrMilestoneAmountNotIncreasing
			}
		}

		milestone := &domain.Milestone{
			CampaignID:   campaignID,
			Sequence:     sequence,
			TargetAmount: targetAmount,
			Description:  description,
		}
		if err := setMilestone(ctx, tx, milestone); err != nil {
			return err
		}
		campaign.MilestonesCount = sequence
		return setCampaign(ctx, tx, campaign)
	})
	if err != nil {
		return 0, err
	}

	s.bus.Publish(ctx, notify.MilestoneCreated{CampaignID: campaignID, Sequence: sequence, TargetAmount: targetAmount})
	return sequence, nil
}

// GetMilestone is a pure read with no side effects.
func (s *Service) GetMilestone(ctx context.Context, campaignID string, sequence uint32) (*domain.Milestone, error) {
	return getMilestone(ctx, s.store, campaignID, sequence)
}

// ListMilestones returns the campaign's milestones in sequence order. The
// listing is best effort: a sequence that fails to resolve is skipped, not
// an error.
func (s *Service) ListMilestones(ctx context.Context, campaignID string) ([]domain.Milestone, error) {
	campaign, err := getCampaign(ctx, s.store, campaignID)
	if err != nil {
		return nil, err
	}
	milestones := make([]domain.Milestone, 0, campaign.MilestonesCount)
	for sequence := uint32(1); sequence <= campaign.MilestonesCount; sequence++ {
		m, err := getMilestone(ctx, s.store, campaignID, sequence)
		if err != nil {
			if errors.Is(err, domain.ErrMilestoneNotFound) {
				continue
			}
			return nil, err
		}
		milestones = append(milestones, *m)
	}
	return milestones, nil
}
