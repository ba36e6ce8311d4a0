// Package credential is the completion-credential side system. The escrow
// core depends on exactly one inbound operation, Issue; everything else here
// is the issuer's own bookkeeping (ownership queries, collection metadata).
// Secondary-market transfer and approvals are deliberately absent.
package credential

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Ref is a content-addressed reference to a caller-chosen identifier: the
// SHA-256 of the raw string. Issuers receive refs, never the raw ids.
type Ref [32]byte

func RefOf(id string) Ref {
	return sha256.Sum256([]byte(id))
}

func (r Ref) String() string {
	return hex.EncodeToString(r[:])
}

// IssueRequest carries everything the issuer needs to mint one completion
// credential for a validated milestone.
type IssueRequest struct {
	CampaignRef Ref
	ProofRef    Ref
	URI         string
	Description string
	Recipient   string
}

type Issuer interface {
	// Issue mints a credential and returns its id. Callable only by the
	// identity registered as the authorized issuer caller.
	Issue(ctx context.Context, req IssueRequest) (string, error)
}
