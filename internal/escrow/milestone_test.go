package escrow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/refinance/crowdfund/internal/domain"
)

func TestCreateMilestoneSequencing(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	e.createCampaign(t, "well", 1000, 10)
	e.contribute(t, "well", contributorID, 500)

	seq, err := e.svc.CreateMilestone(callerCtx(creatorID), "well", 500, "drill")
	require.NoError(t, err)
	require.Equal(t, uint32(1), seq)

	_, err = e.svc.CreateMilestone(callerCtx(creatorID), "well", 400, "pump")
	require.ErrorIs(t, err, domain.ErrMilestoneAmountNotIncreasing)

	seq, err = e.svc.CreateMilestone(callerCtx(creatorID), "well", 1000, "pump")
	require.NoError(t, err)
	require.Equal(t, uint32(2), seq)

	campaign, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	require.Equal(t, uint32(2), campaign.MilestonesCount)
	require.Zero(t, campaign.CurrentMilestone)
}

func TestCreateMilestoneValidation(t *testing.T) {
	e := newEnv(t)
	e.createCampaign(t, "well", 1000, 10)

	_, err := e.svc.CreateMilestone(callerCtx(creatorID), "well", 0, "none")
	require.ErrorIs(t, err, domain.ErrInvalidMilestoneAmount)

	_, err = e.svc.CreateMilestone(callerCtx(creatorID), "well", 1500, "beyond goal")
	require.ErrorIs(t, err, domain.ErrInvalidMilestoneAmount)

	_, err = e.svc.CreateMilestone(callerCtx("mallory"), "well", 500, "not mine")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = e.svc.CreateMilestone(callerCtx(creatorID), "missing", 500, "no campaign")
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestCreateMilestoneFailureLeavesCountUnchanged(t *testing.T) {
	e := newEnv(t)
	e.createCampaign(t, "well", 1000, 10)

	_, err := e.svc.CreateMilestone(callerCtx(creatorID), "well", 500, "drill")
	require.NoError(t, err)
	_, err = e.svc.CreateMilestone(callerCtx(creatorID), "well", 300, "lower")
	require.ErrorIs(t, err, domain.ErrMilestoneAmountNotIncreasing)

	campaign, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	require.Equal(t, uint32(1), campaign.MilestonesCount)
}

func TestListMilestonesOrdered(t *testing.T) {
	e := newEnv(t)
	e.createCampaign(t, "well", 1000, 10)

	for _, target := range []int64{100, 400, 900} {
		_, err := e.svc.CreateMilestone(callerCtx(creatorID), "well", target, "step")
		require.NoError(t, err)
	}

	milestones, err := e.svc.ListMilestones(context.Background(), "well")
	require.NoError(t, err)
	require.Len(t, milestones, 3)
	for i, m := range milestones {
		require.Equal(t, uint32(i+1), m.Sequence)
		require.False(t, m.Completed)
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	e := newEnv(t)
	e.createCampaign(t, "well", 1000, 10)
	_, err := e.svc.CreateMilestone(callerCtx(creatorID), "well", 500, "drill")
	require.NoError(t, err)

	first, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	second, err := e.svc.GetCampaign(context.Background(), "well")
	require.NoError(t, err)
	require.Equal(t, first, second)

	m1, err := e.svc.GetMilestone(context.Background(), "well", 1)
	require.NoError(t, err)
	m2, err := e.svc.GetMilestone(context.Background(), "well", 1)
	require.NoError(t, err)
	require.Equal(t, m1, m2)
}

func TestSubmitProof(t *testing.T) {
	e := newEnv(t)
	e.initialize(t, false)
	e.createCampaign(t, "well", 1000, 10)

	err := e.svc.SubmitProof(callerCtx(adminID), "well", "p1", "ipfs://p1", "drill invoice")
	require.NoError(t, err)

	proof, err := e.svc.GetProof(context.Background(), "well", "p1")
	require.NoError(t, err)
	require.Equal(t, "ipfs://p1", proof.URI)
	require.Equal(t, testTime, proof.SubmittedAt)

	err = e.svc.SubmitProof(callerCtx(adminID), "well", "p1", "ipfs://other", "dup")
	require.ErrorIs(t, err, domain.ErrProofAlreadyExists)

	err = e.svc.SubmitProof(callerCtx(creatorID), "well", "p2", "ipfs://p2", "not admin")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = e.svc.SubmitProof(callerCtx(adminID), "missing", "p2", "ipfs://p2", "no campaign")
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)

	_, err = e.svc.GetProof(context.Background(), "well", "nope")
	require.ErrorIs(t, err, domain.ErrProofNotFound)
}
