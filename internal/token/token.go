// Package token is the fungible-value transfer boundary. The escrow core
// never touches balances directly; it only asks for an atomic move between
// two accounts and aborts the whole operation when that fails.
package token

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransfer     = errors.New("invalid transfer")
)

type Transfer interface {
	// Transfer moves amount from one account to another atomically.
	Transfer(ctx context.Context, from, to string, amount int64) error
}

// MemoryLedger is an in-process balance ledger for tests and local runs.
// FailNext forces the next transfer to fail, for abort-path coverage.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	FailNext error
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]int64)}
}

// Credit funds an account out of band, standing in for the mint/deposit flow
// a real ledger would have.
func (l *MemoryLedger) Credit(account string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

func (l *MemoryLedger) Balance(account string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

func (l *MemoryLedger) Transfer(ctx context.Context, from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.FailNext; err != nil {
		l.FailNext = nil
		return err
	}
	if from == "" || to == "" || amount <= 0 {
		return ErrInvalidTransfer
	}
	if l.balances[from] < amount {
		return ErrInsufficientBalance
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

var _ Transfer = (*MemoryLedger)(nil)
