package token

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerTransfer(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	l.Credit("alice", 100)

	require.NoError(t, l.Transfer(ctx, "alice", "bob", 60))
	require.Equal(t, int64(40), l.Balance("alice"))
	require.Equal(t, int64(60), l.Balance("bob"))

	err := l.Transfer(ctx, "alice", "bob", 41)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Equal(t, int64(40), l.Balance("alice"), "failed transfer moves nothing")
}

func TestMemoryLedgerInvalidTransfers(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	l.Credit("alice", 100)

	require.ErrorIs(t, l.Transfer(ctx, "", "bob", 10), ErrInvalidTransfer)
	require.ErrorIs(t, l.Transfer(ctx, "alice", "", 10), ErrInvalidTransfer)
	require.ErrorIs(t, l.Transfer(ctx, "alice", "bob", 0), ErrInvalidTransfer)
	require.ErrorIs(t, l.Transfer(ctx, "alice", "bob", -5), ErrInvalidTransfer)
}

func TestMemoryLedgerFailNext(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	l.Credit("alice", 100)

	boom := errors.New("boom")
	l.FailNext = boom

	require.ErrorIs(t, l.Transfer(ctx, "alice", "bob", 10), boom)
	// The hook is one-shot.
	require.NoError(t, l.Transfer(ctx, "alice", "bob", 10))
	require.Equal(t, int64(10), l.Balance("bob"))
}
