package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/credential"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
)

// pendingIssuance records a validation whose credential has not been minted
// yet. It carries everything a retry needs, so the retry path never depends
// on the proof or campaign records still resolving.
type pendingIssuance struct {
	CampaignID  string    `json:"campaign_id"`
	Sequence    uint32    `json:"sequence"`
	ProofID     string    `json:"proof_id"`
	URI         string    `json:"uri"`
	Description string    `json:"description"`
	Recipient   string    `json:"recipient"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ValidateMilestone is the state-transition gate. It checks every invariant
// before any write, completes the milestone, unlocks the milestone's target
// for withdrawal, and then — after the local commit — asks the credential
// issuer to mint a completion credential for the creator.
//
// Validation is not idempotent: re-validating a completed milestone is an
// error. Milestones complete strictly in sequence even when funding would
// cover a later one.
//
// When the issuer call fails the validation stands, the pending marker
// stays, and the caller gets ErrCredentialPending; RetryPendingIssuances
// finishes the job later. Presenting this as atomic would be a lie — the
// issuer is an independently-owned ledger.
func (s *Service) ValidateMilestone(ctx context.Context, campaignID string, sequence uint32, proofID string) error {
	var pending *pendingIssuance
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		cfg, err := platformConfig(ctx, tx)
		if err != nil {
			return err
		}
		if err := auth.Require(ctx, cfg.Admin); err != nil {
			return err
		}

		// All three records must resolve before any mutation.
		campaign, err := getCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		milestone, err := getMilestone(ctx, tx, campaignID, sequence)
		if err != nil {
			return err
		}
		proof, err := getProof(ctx, tx, campaignID, proofID)
		if err != nil {
			return err
		}

		if milestone.Completed {
			return domain.ErrMilestoneAlreadyCompleted
		}
		if campaign.TotalRaised < milestone.TargetAmount {
			return domain.ErrInsufficientFundsForMilestone
		}
		if sequence != campaign.CurrentMilestone+1 {
			return domain.ErrMilestoneNotInSequence
		}

		completedAt := s.now().UTC()
		milestone.Completed = true
		milestone.ProofID = proofID
		milestone.CompletedAt = &completedAt

		campaign.CurrentMilestone = sequence
		// Overwrites, not accumulates: an un-withdrawn prior unlock is
		// dropped from the withdrawable balance (it stays in escrow).
		campaign.WithdrawableAmount = milestone.TargetAmount

		if err := setMilestone(ctx, tx, milestone); err != nil {
			return err
		}
		if err := setCampaign(ctx, tx, campaign); err != nil {
			return err
		}

		if cfg.IssueCredentials && s.issuer != nil {
			pending = &pendingIssuance{
				CampaignID:  campaignID,
				Sequence:    sequence,
				ProofID:     proofID,
				URI:         proof.URI,
				Description: proof.Description,
				Recipient:   campaign.Creator,
				RecordedAt:  completedAt,
			}
			return tx.Set(ctx, store.PendingIssuanceKey(campaignID, sequence), pending)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, notify.MilestoneCompleted{CampaignID: campaignID, Sequence: sequence, ProofID: proofID})

	if pending == nil {
		return nil
	}
	if err := s.issueCredential(ctx, pending); err != nil {
		s.log.Warn().Err(err).
			Str("campaign_id", campaignID).
			Uint32("sequence", sequence).
			Msg("credential issuance deferred")
		return fmt.Errorf("%w: %v", domain.ErrCredentialPending, err)
	}
	return nil
}

// issueCredential performs the second phase: mint, then clear the marker.
func (s *Service) issueCredential(ctx context.Context, p *pendingIssuance) error {
	credentialID, err := s.issuer.Issue(ctx, credential.IssueRequest{
		CampaignRef: credential.RefOf(p.CampaignID),
		ProofRef:    credential.RefOf(p.ProofID),
		URI:         p.URI,
		Description: p.Description,
		Recipient:   p.Recipient,
	})
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, store.PendingIssuanceKey(p.CampaignID, p.Sequence)); err != nil {
		return err
	}
	s.log.Info().
		Str("campaign_id", p.CampaignID).
		Uint32("sequence", p.Sequence).
		Str("credential_id", credentialID).
		Msg("credential issued")
	return nil
}

// RetryPendingIssuances re-attempts every deferred credential mint and
// returns how many succeeded. Markers whose issuer call fails again are left
// in place for the next pass.
func (s *Service) RetryPendingIssuances(ctx context.Context) (int, error) {
	cfg, err := platformConfig(ctx, s.store)
	if err != nil {
		return 0, err
	}
	if err := auth.Require(ctx, cfg.Admin); err != nil {
		return 0, err
	}
	if s.issuer == nil {
		return 0, nil
	}

	keys, err := s.store.ListKeys(ctx, store.KindPendingIssuance)
	if err != nil {
		return 0, err
	}

	issued := 0
	for _, key := range keys {
		var p pendingIssuance
		if err := s.store.Get(ctx, key, &p); err != nil {
			if errors.Is(err, store.ErrNoRecord) {
				continue
			}
			return issued, err
		}
		if err := s.issueCredential(ctx, &p); err != nil {
			s.log.Warn().Err(err).
				Str("campaign_id", p.CampaignID).
				Uint32("sequence", p.Sequence).
				Msg("credential issuance still pending")
			continue
		}
		issued++
	}
	return issued, nil
}
