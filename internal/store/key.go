package store

import (
	"strconv"
	"strings"
)

// Kind enumerates every record family the platform persists. Keys are built
// only through the constructors below so the set of addressable records stays
// closed; the storage boundary switches exhaustively on Kind.
type Kind string

const (
	KindPlatform        Kind = "platform"
	KindCampaign        Kind = "campaign"
	KindContribution    Kind = "contribution"
	KindMilestone       Kind = "milestone"
	KindProof           Kind = "proof"
	KindPendingIssuance Kind = "pending_issuance"
	KindCredentialState Kind = "credential_state"
	KindCredential      Kind = "credential"
	KindCredentialOwner Kind = "credential_owner"
)

// Key addresses one record: a kind plus the identifier tuple of the entity.
type Key struct {
	Kind  Kind
	Parts []string
}

// ID renders the identifier tuple as a single composite string, used as the
// storage key within a kind.
func (k Key) ID() string {
	return strings.Join(k.Parts, "\x1f")
}

func PlatformKey() Key {
	return Key{Kind: KindPlatform}
}

func CampaignKey(campaignID string) Key {
	return Key{Kind: KindCampaign, Parts: []string{campaignID}}
}

func ContributionKey(campaignID, contributor string) Key {
	return Key{Kind: KindContribution, Parts: []string{campaignID, contributor}}
}

func MilestoneKey(campaignID string, sequence uint32) Key {
	return Key{Kind: KindMilestone, Parts: []string{campaignID, formatSequence(sequence)}}
}

func ProofKey(campaignID, proofID string) Key {
	return Key{Kind: KindProof, Parts: []string{campaignID, proofID}}
}

func PendingIssuanceKey(campaignID string, sequence uint32) Key {
	return Key{Kind: KindPendingIssuance, Parts: []string{campaignID, formatSequence(sequence)}}
}

func CredentialStateKey() Key {
	return Key{Kind: KindCredentialState}
}

func CredentialKey(id uint64) Key {
	return Key{Kind: KindCredential, Parts: []string{strconv.FormatUint(id, 10)}}
}

func CredentialOwnerKey(owner string) Key {
	return Key{Kind: KindCredentialOwner, Parts: []string{owner}}
}

func formatSequence(sequence uint32) string {
	return strconv.FormatUint(uint64(sequence), 10)
}
