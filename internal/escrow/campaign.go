package escrow

import (
	"context"
	"fmt"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
)

// CreateCampaignParams are the caller-supplied campaign attributes. The id is
// caller-chosen and must be unused.
type CreateCampaignParams struct {
	ID          string
	Creator     string
	Title       string
	Description string
	Goal        int64
	MinDonation int64
}

// CreateCampaign binds a new campaign record with all counters zeroed.
func (s *Service) CreateCampaign(ctx context.Context, p CreateCampaignParams) error {
	if err := auth.Require(ctx, p.Creator); err != nil {
		return err
	}
	if p.Goal <= 0 {
		return domain.ErrInvalidGoal
	}
	if p.MinDonation <= 0 || p.MinDonation > p.Goal {
		return domain.ErrInvalidMinDonation
	}

	err := s.store.Atomic(ctx, func(tx store.Store) error {
		ok, err := hasCampaign(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if ok {
			return domain.ErrCampaignAlreadyExists
		}
		return setCampaign(ctx, tx, &domain.Campaign{
			ID:          p.ID,
			Creator:     p.Creator,
			Title:       p.Title,
			Description: p.Description,
			Goal:        p.Goal,
			MinDonation: p.MinDonation,
		})
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, notify.CampaignCreated{CampaignID: p.ID, Creator: p.Creator, Goal: p.Goal})
	return nil
}

// GetCampaign is a pure read with no side effects.
func (s *Service) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	return getCampaign(ctx, s.store, campaignID)
}

// Contribute moves amount from the contributor into escrow and accumulates
// their contribution record. The supporter count moves only on an identity's
// first contribution to the campaign.
func (s *Service) Contribute(ctx context.Context, campaignID, contributor string, amount int64) error {
	if err := auth.Require(ctx, contributor); err != nil {
		return err
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	err := s.store.Atomic(ctx, func(tx store.Store) error {
		cfg, err := platformConfig(ctx, tx)
		if err != nil {
			return err
		}
		campaign, err := getCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		if amount < campaign.MinDonation {
			return domain.ErrBelowMinimum
		}
		if campaign.TotalRaised+amount > campaign.Goal {
			return domain.ErrGoalExceeded
		}

		// Funds move before any record changes; a failed transfer aborts
		// the operation with no state committed.
		if err := s.token.Transfer(ctx, contributor, cfg.EscrowAccount, amount); err != nil {
			return fmt.Errorf("escrow transfer: %w", err)
		}

		exists, err := hasContribution(ctx, tx, campaignID, contributor)
		if err != nil {
			return err
		}
		contribution := &domain.Contribution{CampaignID: campaignID, Contributor: contributor}
		if exists {
			existing, err := getContribution(ctx, tx, campaignID, contributor)
			if err != nil {
				return err
			}
			contribution.Amount = existing.Amount
		} else {
			campaign.Supporters++
		}
		contribution.Amount += amount
		campaign.TotalRaised += amount

		if err := setCampaign(ctx, tx, campaign); err != nil {
			return err
		}
		return setContribution(ctx, tx, contribution)
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, notify.ContributionAdded{CampaignID: campaignID, Contributor: contributor, Amount: amount})
	return nil
}

// GetContribution reports a contributor's accumulated stake.
func (s *Service) GetContribution(ctx context.Context, campaignID, contributor string) (*domain.Contribution, error) {
	return getContribution(ctx, s.store, campaignID, contributor)
}
