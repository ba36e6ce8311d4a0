package escrow

import (
	"context"
	"errors"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
)

// Initialize writes the singleton platform configuration: the administrator
// identity, the escrow account funds are held in, and whether validation
// mints completion credentials. It runs once; a second call fails.
func (s *Service) Initialize(ctx context.Context, cfg domain.PlatformConfig) error {
	if err := auth.Require(ctx, cfg.Admin); err != nil {
		return err
	}
	if cfg.EscrowAccount == "" {
		return domain.ErrInvalidEscrowAccount
	}

	err := s.store.Atomic(ctx, func(tx store.Store) error {
		ok, err := tx.Has(ctx, store.PlatformKey())
		if err != nil {
			return err
		}
		if ok {
			return domain.ErrAlreadyInitialized
		}
		return tx.Set(ctx, store.PlatformKey(), cfg)
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, notify.PlatformInitialized{
		Admin:         cfg.Admin,
		EscrowAccount: cfg.EscrowAccount,
	})
	return nil
}

// platformConfig loads the singleton configuration written by Initialize.
func platformConfig(ctx context.Context, st store.Store) (*domain.PlatformConfig, error) {
	var cfg domain.PlatformConfig
	if err := st.Get(ctx, store.PlatformKey(), &cfg); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, domain.ErrNotInitialized
		}
		return nil, err
	}
	return &cfg, nil
}

// PlatformConfig exposes the installed configuration to read-only callers.
func (s *Service) PlatformConfig(ctx context.Context) (*domain.PlatformConfig, error) {
	return platformConfig(ctx, s.store)
}
