// Package escrow is the milestone-gated crowdfunding core: campaign ledger,
// milestone ledger, proof log, validation engine and withdrawal/refund
// engine, all operating on the record store through the closed key set.
//
// Every operation runs its read-check-write sequence inside one store.Atomic
// call, so a single invocation either fully commits or fully fails. The one
// cross-boundary side effect — credential issuance after validation — runs
// after the local commit under a pending marker (see validate.go).
package escrow

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/refinance/crowdfund/internal/credential"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
	"github.com/refinance/crowdfund/internal/token"
)

type Service struct {
	store  store.Store
	token  token.Transfer
	issuer credential.Issuer
	bus    notify.Bus
	log    zerolog.Logger
	now    func() time.Time
}

// New wires the escrow core. issuer may be nil; validation then skips
// credential minting regardless of platform configuration.
func New(st store.Store, transfer token.Transfer, issuer credential.Issuer, bus notify.Bus, log zerolog.Logger) *Service {
	return &Service{
		store:  st,
		token:  transfer,
		issuer: issuer,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// WithClock pins the ledger timestamp source. Test use.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
