package credential

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
)

// Collection describes the credential series this ledger mints into.
type Collection struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	BaseURI string `json:"base_uri"`
}

// Metadata is the durable record of one minted credential.
type Metadata struct {
	ID          uint64    `json:"id"`
	CampaignRef string    `json:"campaign_ref"`
	ProofRef    string    `json:"proof_ref"`
	URI         string    `json:"uri"`
	Description string    `json:"description"`
	Recipient   string    `json:"recipient"`
	IssuedAt    time.Time `json:"issued_at"`
}

type state struct {
	Collection Collection `json:"collection"`
	NextID     uint64     `json:"next_id"`
}

type ownerCount struct {
	Count uint64 `json:"count"`
}

// Ledger is a record-store-backed Issuer. Minting is gated on the identity
// registered at construction as the authorized caller.
type Ledger struct {
	store      store.Store
	bus        notify.Bus
	authorized string
	collection Collection
	now        func() time.Time
}

func NewLedger(st store.Store, bus notify.Bus, authorizedCaller string, collection Collection) *Ledger {
	return &Ledger{
		store:      st,
		bus:        bus,
		authorized: authorizedCaller,
		collection: collection,
		now:        time.Now,
	}
}

// WithClock pins the issuance timestamp source. Test use.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func (l *Ledger) Issue(ctx context.Context, req IssueRequest) (string, error) {
	if err := auth.Require(ctx, l.authorized); err != nil {
		return "", err
	}
	if req.Recipient == "" {
		return "", errors.New("recipient required")
	}

	var minted Metadata
	err := l.store.Atomic(ctx, func(tx store.Store) error {
		st := state{Collection: l.collection, NextID: 1}
		if err := tx.Get(ctx, store.CredentialStateKey(), &st); err != nil && !errors.Is(err, store.ErrNoRecord) {
			return err
		}

		minted = Metadata{
			ID:          st.NextID,
			CampaignRef: req.CampaignRef.String(),
			ProofRef:    req.ProofRef.String(),
			URI:         req.URI,
			Description: req.Description,
			Recipient:   req.Recipient,
			IssuedAt:    l.now().UTC(),
		}
		if err := tx.Set(ctx, store.CredentialKey(minted.ID), minted); err != nil {
			return err
		}

		var count ownerCount
		if err := tx.Get(ctx, store.CredentialOwnerKey(req.Recipient), &count); err != nil && !errors.Is(err, store.ErrNoRecord) {
			return err
		}
		count.Count++
		if err := tx.Set(ctx, store.CredentialOwnerKey(req.Recipient), count); err != nil {
			return err
		}

		st.NextID++
		return tx.Set(ctx, store.CredentialStateKey(), st)
	})
	if err != nil {
		return "", err
	}

	l.bus.Publish(ctx, notify.CredentialIssued{
		CredentialID: strconv.FormatUint(minted.ID, 10),
		Recipient:    minted.Recipient,
		IssuedAt:     minted.IssuedAt,
	})
	return strconv.FormatUint(minted.ID, 10), nil
}

// Get returns the metadata of one credential.
func (l *Ledger) Get(ctx context.Context, id uint64) (*Metadata, error) {
	var meta Metadata
	if err := l.store.Get(ctx, store.CredentialKey(id), &meta); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}
	return &meta, nil
}

// OwnerOf returns the recipient a credential was minted to.
func (l *Ledger) OwnerOf(ctx context.Context, id uint64) (string, error) {
	meta, err := l.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return meta.Recipient, nil
}

// CountOf returns how many credentials an identity holds.
func (l *Ledger) CountOf(ctx context.Context, owner string) (uint64, error) {
	var count ownerCount
	if err := l.store.Get(ctx, store.CredentialOwnerKey(owner), &count); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return 0, nil
		}
		return 0, err
	}
	return count.Count, nil
}

var _ Issuer = (*Ledger)(nil)
