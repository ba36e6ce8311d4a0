package escrow

import (
	"context"
	"errors"

	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/store"
)

// Typed accessors over the record store. Each maps the store's generic
// absence to the entity's own not-found sentinel; nothing outside this file
// builds entity keys.

func getCampaign(ctx context.Context, st store.Store, campaignID string) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := st.Get(ctx, store.CampaignKey(campaignID), &c); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

func setCampaign(ctx context.Context, st store.Store, c *domain.Campaign) error {
	return st.Set(ctx, store.CampaignKey(c.ID), c)
}

func hasCampaign(ctx context.Context, st store.Store, campaignID string) (bool, error) {
	return st.Has(ctx, store.CampaignKey(campaignID))
}

func removeCampaign(ctx context.Context, st store.Store, campaignID string) error {
	return st.Remove(ctx, store.CampaignKey(campaignID))
}

func getMilestone(ctx context.Context, st store.Store, campaignID string, sequence uint32) (*domain.Milestone, error) {
	var m domain.Milestone
	if err := st.Get(ctx, store.MilestoneKey(campaignID, sequence), &m); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, domain.ErrMilestoneNotFound
		}
		return nil, err
	}
	return &m, nil
}

func setMilestone(ctx context.Context, st store.Store, m *domain.Milestone) error {
	return st.Set(ctx, store.MilestoneKey(m.CampaignID, m.Sequence), m)
}

func getProof(ctx context.Context, st store.Store, campaignID, proofID string) (*domain.Proof, error) {
	var p domain.Proof
	if err := st.Get(ctx, store.ProofKey(campaignID, proofID), &p); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, domain.ErrProofNotFound
		}
		return nil, err
	}
	return &p, nil
}

func getContribution(ctx context.Context, st store.Store, campaignID, contributor string) (*domain.Contribution, error) {
	var c domain.Contribution
	if err := st.Get(ctx, store.ContributionKey(campaignID, contributor), &c); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, domain.ErrContributionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func setContribution(ctx context.Context, st store.Store, c *domain.Contribution) error {
	return st.Set(ctx, store.ContributionKey(c.CampaignID, c.Contributor), c)
}

func hasContribution(ctx context.Context, st store.Store, campaignID, contributor string) (bool, error) {
	return st.Has(ctx, store.ContributionKey(campaignID, contributor))
}

func removeContribution(ctx context.Context, st store.Store, campaignID, contributor string) error {
	return st.Remove(ctx, store.ContributionKey(campaignID, contributor))
}
