package escrow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/refinance/crowdfund/internal/credential"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/escrow"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
	"github.com/refinance/crowdfund/internal/token"
	"github.com/rs/zerolog"
)

// fundedCampaign sets up the §-style scenario: goal 1000, min 10, 500 raised,
// milestones at 500 and 1000, proof p1 logged.
func fundedCampaign(t *testing.T, e *env) {
	t.Helper()
	e.createCampaign(t, "well", 1000, 10)
	e.contribute(t, "well", contributorID, 500)
	_, err := e.svc.CreateMilestone(callerCtx(creatorID), "well", 500, "drill")
	require.NoError(t, err)
	_, err = e.svc.CreateMilestone(callerCtx(creatorID), "well", 1000, "pump")
	require.NoError(t, err)
	require.NoError(t, e.svc.SubmitProof(callerCtx(adminID), "well", "p1", "ipfs://p1", "drill invoice"))
}

func TestValidateMilestone(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	fundedCampaign(t, e)

	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1"))

	campaign, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	require.Equal(t, uint32(1), campaign.CurrentMilestone)
	require.Equal(t, int64(500), campaign.WithdrawableAmount)

	milestone, err := e.svc.GetMilestone(context.Background(), "well", 1)
	require.NoError(t, err)
	require.True(t, milestone.Completed)
	require.Equal(t, "p1", milestone.ProofID)
	require.NotNil(t, milestone.CompletedAt)
	require.Equal(t, testTime, *milestone.CompletedAt)
}

func TestValidateRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	fundedCampaign(t, e)

	err := e.svc.ValidateMilestone(callerCtx(creatorID), "well", 1, "p1")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateAllRecordsMustResolve(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	fundedCampaign(t, e)

	err := e.svc.ValidateMilestone(callerCtx(adminID), "missing", 1, "p1")
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)

	err = e.svc.ValidateMilestone(callerCtx(adminID), "well", 9, "p1")
	require.ErrorIs(t, err, domain.ErrMilestoneNotFound)

	err = e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "nope")
	require.ErrorIs(t, err, domain.ErrProofNotFound)
}

func TestValidateStrictSequence(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	fundedCampaign(t, e)

	// Fund the campaign fully so sequence, not funding, is what gates.
	e.contribute(t, "well", "carol", 500)

	err := e.svc.ValidateMilestone(callerCtx(adminID), "well", 2, "p1")
	require.ErrorIs(t, err, domain.ErrMilestoneNotInSequence)

	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1"))
	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 2, "p1"))

	campaign, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	require.Equal(t, uint32(2), campaign.CurrentMilestone)
	require.LessOrEqual(t, campaign.CurrentMilestone, campaign.MilestonesCount)
}

func TestValidateNotIdempotent(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	fundedCampaign(t, e)

	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1"))

	before, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)

	err = e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1")
	require.ErrorIs(t, err, domain.ErrMilestoneAlreadyCompleted)

	after, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	require.Equal(t, before, after, "failed revalidation performs no state change")
}

func TestValidateInsufficientFunds(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	e.createCampaign(t, "well", 1000, 10)
	e.contribute(t, "well", contributorID, 100)
	_, err := e.svc.CreateMilestone(callerCtx(creatorID), "well", 500, "drill")
	require.NoError(t, err)
	require.NoError(t, e.svc.SubmitProof(callerCtx(adminID), "well", "p1", "ipfs://p1", "invoice"))

	err = e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1")
	require.ErrorIs(t, err, domain.ErrInsufficientFundsForMilestone)
}

func TestValidateOverwritesWithdrawable(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	fundedCampaign(t, e)
	e.contribute(t, "well", "carol", 500)

	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1"))
	// Creator does not withdraw; the next validation replaces the balance.
	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 2, "p1"))

	campaign, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	require.Equal(t, int64(1000), campaign.WithdrawableAmount, "replaced, not accumulated")
}

func TestProofMayValidateSeveralMilestones(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	fundedCampaign(t, e)
	e.contribute(t, "well", "carol", 500)

	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1"))
	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 2, "p1"))
}

func TestValidateMintsCredential(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, true)
	fundedCampaign(t, e)

	require.NoError(t, e.svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1"))

	meta, err := e.creds.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, creatorID, meta.Recipient)
	require.Equal(t, credential.RefOf("well").String(), meta.CampaignRef)
	require.Equal(t, credential.RefOf("p1").String(), meta.ProofRef)
	require.Equal(t, "ipfs://p1", meta.URI)

	count, err := e.creds.CountOf(context.Background(), creatorID)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)

	// Issuance succeeded, so no marker remains.
	ok, err := e.records.Has(context.Background(), store.PendingIssuanceKey("well", 1))
	require.NoError(t, err)
	require.False(t, ok)
}

type flakyIssuer struct {
	fail   error
	issued []credential.IssueRequest
}

func (f *flakyIssuer) Issue(ctx context.Context, req credential.IssueRequest) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.issued = append(f.issued, req)
	return "cred-1", nil
}

func TestValidateIssuerFailureIsTwoPhase(t *testing.T) {
	records := store.NewMemory()
	ledger := token.NewMemoryLedger()
	bus := &notify.Recorder{}
	issuer := &flakyIssuer{fail: errors.New("issuer offline")}
	svc := escrow.New(records, ledger, issuer, bus, zerolog.Nop())

	e := &env{svc: svc, records: records, ledger: ledger, bus: bus}
	e.initialize(t, true)
	fundedCampaign(t, e)

	err := svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1")
	require.ErrorIs(t, err, domain.ErrCredentialPending)

	// Local state committed despite the failed issuer call.
	milestone, err := svc.GetMilestone(context.Background(), "well", 1)
	require.NoError(t, err)
	require.True(t, milestone.Completed)

	ok, err := records.Has(context.Background(), store.PendingIssuanceKey("well", 1))
	require.NoError(t, err)
	require.True(t, ok, "pending marker survives the failure")

	// Revalidation stays an error; the milestone really is completed.
	err = svc.ValidateMilestone(callerCtx(adminID), "well", 1, "p1")
	require.ErrorIs(t, err, domain.ErrMilestoneAlreadyCompleted)

	// Issuer recovers; the retry pass finishes the job.
	issuer.fail = nil
	issued, err := svc.RetryPendingIssuances(callerCtx(adminID))
	require.NoError(t, err)
	require.Equal(t, 1, issued)
	require.Len(t, issuer.issued, 1)
	require.Equal(t, creatorID, issuer.issued[0].Recipient)

	ok, err = records.Has(context.Background(), store.PendingIssuanceKey("well", 1))
	require.NoError(t, err)
	require.False(t, ok, "marker cleared after mint")

	// Nothing left to retry.
	issued, err = svc.RetryPendingIssuances(callerCtx(adminID))
	require.NoError(t, err)
	require.Zero(t, issued)
}

func TestRetryPendingIssuancesRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, true)

	_, err := e.svc.RetryPendingIssuances(callerCtx(creatorID))
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
