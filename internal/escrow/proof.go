package escrow

import (
	"context"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
)

// SubmitProof appends a proof record for a campaign. Proofs are logged by
// the platform administrator, not the campaign creator, and are never
// mutated after the write. The uri is an opaque claim; nothing behind it is
// fetched or verified.
func (s *Service) SubmitProof(ctx context.Context, campaignID, proofID, uri, description string) error {
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		cfg, err := platformConfig(ctx, tx)
		if err != nil {
			return err
		}
		if err := auth.Require(ctx, cfg.Admin); err != nil {
			return err
		}
		if ok, err := hasCampaign(ctx, tx, campaignID); err != nil {
			return err
		} else if !ok {
			return domain.ErrCampaignNotFound
		}
		if ok, err := tx.Has(ctx, store.ProofKey(campaignID, proofID)); err != nil {
			return err
		} else if ok {
			return domain.ErrProofAlreadyExists
		}
		return tx.Set(ctx, store.ProofKey(campaignID, proofID), &domain.Proof{
			ProofID:     proofID,
			CampaignID:  campaignID,
			URI:         uri,
			Description: description,
			SubmittedAt: s.now().UTC(),
		})
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, notify.ProofLogged{CampaignID: campaignID, ProofID: proofID, URI: uri})
	return nil
}

// GetProof is a pure read with no side effects.
func (s *Service) GetProof(ctx context.Context, campaignID, proofID string) (*domain.Proof, error) {
	return getProof(ctx, s.store, campaignID, proofID)
}
