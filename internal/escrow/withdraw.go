package escrow

import (
	"context"
	"fmt"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
)

// WithdrawMilestone releases the unlocked funds for a validated milestone to
// the campaign creator and returns the amount moved. The withdrawable
// balance zeroes on success.
func (s *Service) WithdrawMilestone(ctx context.Context, campaignID string, sequence uint32) (int64, error) {
	var (
		amount  int64
		creator string
	)
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		cfg, err := platformConfig(ctx, tx)
		if err != nil {
			return err
		}
		campaign, err := getCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		if err := auth.Require(ctx, campaign.Creator); err != nil {
			return err
		}
		milestone, err := getMilestone(ctx, tx, campaignID, sequence)
		if err != nil {
			return err
		}
		if !milestone.Completed {
			return domain.ErrMilestoneNotCompleted
		}
		if sequence > campaign.CurrentMilestone {
			return domain.ErrCannotWithdrawFutureMilestone
		}
		amount = milestone.TargetAmount
		if amount <= 0 || campaign.WithdrawableAmount < amount {
			return domain.ErrNoFundsToWithdraw
		}

		campaign.WithdrawableAmount = 0
		creator = campaign.Creator
		if err := setCampaign(ctx, tx, campaign); err != nil {
			return err
		}
		if err := s.token.Transfer(ctx, cfg.EscrowAccount, campaign.Creator, amount); err != nil {
			return fmt.Errorf("escrow transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().Str("campaign_id", campaignID).Uint32("sequence", sequence).
		Str("creator", creator).Int64("amount", amount).Msg("milestone withdrawal")
	s.bus.Publish(ctx, notify.MilestoneWithdrawal{CampaignID: campaignID, Sequence: sequence, Amount: amount})
	return amount, nil
}

// WithdrawCampaign is the all-or-nothing path for campaigns run without
// milestones: once the goal is reached the creator takes the full raised
// amount and the campaign record is deleted. The transition is terminal — no
// operation works on the id afterward.
func (s *Service) WithdrawCampaign(ctx context.Context, campaignID string) (int64, error) {
	var (
		amount  int64
		creator string
	)
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		cfg, err := platformConfig(ctx, tx)
		if err != nil {
			return err
		}
		campaign, err := getCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		if err := auth.Require(ctx, campaign.Creator); err != nil {
			return err
		}
		if campaign.TotalRaised < campaign.Goal {
			return domain.ErrGoalNotReached
		}

		amount = campaign.TotalRaised
		creator = campaign.Creator
		if err := s.token.Transfer(ctx, cfg.EscrowAccount, campaign.Creator, amount); err != nil {
			return fmt.Errorf("escrow transfer: %w", err)
		}
		return removeCampaign(ctx, tx, campaignID)
	})
	if err != nil {
		return 0, err
	}

	s.bus.Publish(ctx, notify.CampaignWithdrawn{CampaignID: campaignID, Creator: creator, Amount: amount})
	return amount, nil
}

// Refund returns a contributor's accumulated stake from escrow and removes
// their contribution record. Refund never consults milestone state; it is
// the independent escape path.
func (s *Service) Refund(ctx context.Context, campaignID, contributor string) (int64, error) {
	if err := auth.Require(ctx, contributor); err != nil {
		return 0, err
	}

	var amount int64
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		cfg, err := platformConfig(ctx, tx)
		if err != nil {
			return err
		}
		ok, err := hasContribution(ctx, tx, campaignID, contributor)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrContributionNotFound
		}
		campaign, err := getCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		contribution, err := getContribution(ctx, tx, campaignID, contributor)
		if err != nil {
			return err
		}
		amount = contribution.Amount

		if err := s.token.Transfer(ctx, cfg.EscrowAccount, contributor, amount); err != nil {
			return fmt.Errorf("escrow transfer: %w", err)
		}

		campaign.TotalRaised -= amount
		campaign.Supporters--
		if err := removeContribution(ctx, tx, campaignID, contributor); err != nil {
			return err
		}
		return setCampaign(ctx, tx, campaign)
	})
	if err != nil {
		return 0, err
	}

	s.bus.Publish(ctx, notify.ContributionRefunded{CampaignID: campaignID, Contributor: contributor, Amount: amount})
	return amount, nil
}
