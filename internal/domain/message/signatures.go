package message

import (
	"crypto/ed25519"
	"sort"

	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// WitnessPreSig is the signed pre-image of a WitnessSig: a witness commits to
// the contract, the channel pubkey it will speak through for the rest of the
// interaction, the certificate proving its organization membership, and the
// interaction's timeout.
type WitnessPreSig struct {
	Contract            Contract                       `json:"contract"`
	SignerChannelPubkey string                          `json:"signerChannelPubkey"`
	OrgCert             identity.OrganizationCertificate `json:"orgCert"`
	Timeout             int64                           `json:"timeout"`
}

// WitnessSig is a witness's binding commitment to serve on an interaction.
type WitnessSig struct {
	WitnessPreSig
	SignerDIDPubkey string `json:"signerDidPubkey"`
	Signature       []byte `json:"signature"`
}

// SignWitnessPreSig signs preSig with the witness's channel private key and
// attaches the witness's DID pubkey for identification.
func SignWitnessPreSig(preSig WitnessPreSig, channelPriv ed25519.PrivateKey, didPubkeyMultibase string) (WitnessSig, error) {
	preImage, err := crypto.CanonicalJSON(preSig)
	if err != nil {
		return WitnessSig{}, simerr.New(simerr.KindCrypto, "message.SignWitnessPreSig", err)
	}
	return WitnessSig{
		WitnessPreSig:   preSig,
		SignerDIDPubkey: didPubkeyMultibase,
		Signature:       crypto.Sign(channelPriv, preImage),
	}, nil
}

// Verify checks a WitnessSig's signature against signerChannelPubkey, which
// the caller must already have authenticated as belonging to the claimed
// channel (see application/verifier).
func (w WitnessSig) Verify(signerChannelPubkey ed25519.PublicKey) bool {
	preImage, err := crypto.CanonicalJSON(w.WitnessPreSig)
	if err != nil {
		return false
	}
	return crypto.Verify(signerChannelPubkey, preImage, w.Signature)
}

// SortedWitnessSigBytes deterministically orders a set of witness signatures
// by their raw signature bytes and concatenates them. Both participants must
// derive byte-identical output from the same witness set so the interaction
// signature round commits to the same value on both sides (spec.md §4.4).
func SortedWitnessSigBytes(sigs []WitnessSig) []byte {
	bs := make([][]byte, len(sigs))
	for i, s := range sigs {
		bs[i] = s.Signature
	}
	sort.Slice(bs, func(i, j int) bool {
		return string(bs[i]) < string(bs[j])
	})
	out := make([]byte, 0)
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}

// InteractionPreSig is the signed pre-image of an InteractionSig: a
// participant's commitment to the contract, its own channel pubkey, the full
// witness roster (DID pubkeys), the concatenated sorted witness signature
// bytes, the org certificate, and the timeout.
type InteractionPreSig struct {
	Contract            Contract                       `json:"contract"`
	SignerChannelPubkey string                          `json:"signerChannelPubkey"`
	Witnesses           []string                        `json:"witnesses"`
	WitnessSigBytes     []byte                          `json:"witnessSigBytes"`
	OrgCert             identity.OrganizationCertificate `json:"orgCert"`
	Timeout             int64                           `json:"timeout"`
}

// InteractionSig is a participant's binding commitment to the interaction as
// a whole, including the witness roster it observed.
type InteractionSig struct {
	InteractionPreSig
	SignerDIDPubkey string `json:"signerDidPubkey"`
	Signature       []byte `json:"signature"`
}

// SignInteractionPreSig signs preSig with the participant's channel private
// key.
func SignInteractionPreSig(preSig InteractionPreSig, channelPriv ed25519.PrivateKey, didPubkeyMultibase string) (InteractionSig, error) {
	preImage, err := crypto.CanonicalJSON(preSig)
	if err != nil {
		return InteractionSig{}, simerr.New(simerr.KindCrypto, "message.SignInteractionPreSig", err)
	}
	return InteractionSig{
		InteractionPreSig: preSig,
		SignerDIDPubkey:   didPubkeyMultibase,
		Signature:         crypto.Sign(channelPriv, preImage),
	}, nil
}

// Verify checks an InteractionSig's signature against signerChannelPubkey.
func (s InteractionSig) Verify(signerChannelPubkey ed25519.PublicKey) bool {
	preImage, err := crypto.CanonicalJSON(s.InteractionPreSig)
	if err != nil {
		return false
	}
	return crypto.Verify(signerChannelPubkey, preImage, s.Signature)
}
