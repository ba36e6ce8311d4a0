package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/refinance/crowdfund/internal/domain"
)

func TestCaller(t *testing.T) {
	ctx := context.Background()
	require.Empty(t, Caller(ctx))

	ctx = WithCaller(ctx, "alice")
	require.Equal(t, "alice", Caller(ctx))
}

func TestRequire(t *testing.T) {
	ctx := WithCaller(context.Background(), "alice")

	require.NoError(t, Require(ctx, "alice"))
	require.ErrorIs(t, Require(ctx, "bob"), domain.ErrUnauthorized)
	require.ErrorIs(t, Require(ctx, ""), domain.ErrUnauthorized)
	require.ErrorIs(t, Require(context.Background(), "alice"), domain.ErrUnauthorized)
}
