// Package verifier replays a Transcript and decides which of its messages
// are authentic: which channel pubkeys are bound to a validly-signed role
// in the anchoring InteractionMsg, and which later messages come from a
// channel pubkey the verifier has already accepted (spec.md §4.5).
package verifier

import (
	"fmt"

	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/message"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// Role is the capacity a channel pubkey was validated under.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleWitness     Role = "witness"
)

// Validated is the result of successfully verifying a transcript's anchor:
// the contract it commits to, and every channel pubkey accepted, by role.
type Validated struct {
	Contract message.Contract

	// ValidPKs maps a multibase channel pubkey to the role it was
	// validated under. A later WitnessStatement or ApplicationMsg is only
	// accepted if its signer channel pubkey already appears here.
	ValidPKs map[string]Role

	// WitnessStatements accumulates every WitnessStatement accepted from a
	// validated witness channel pubkey, keyed by that pubkey.
	WitnessStatements map[string][]message.WitnessStatement
}

// VerifyTranscript replays tr in order. The first entry must be an
// InteractionMsg; it is verified in full (both participant signatures, the
// witness roster's signatures, organization certificates, contract
// agreement across every signer, and witness-sig-bytes consistency between
// the two participants). Every subsequent entry is only accepted if its
// signer channel pubkey was validated by the anchor (spec.md §4.5, property
// P5/P6).
func VerifyTranscript(tr message.Transcript, referenceTime int64) (*Validated, error) {
	if len(tr) == 0 {
		return nil, simerr.New(simerr.KindProtocol, "verifier.VerifyTranscript", fmt.Errorf("empty transcript"))
	}
	anchor := tr[0]
	if anchor.Message.Kind != message.KindInteractionMsg {
		return nil, simerr.New(simerr.KindProtocol, "verifier.VerifyTranscript", fmt.Errorf("first transcript entry is %s, want %s", anchor.Message.Kind, message.KindInteractionMsg))
	}

	v, err := verifyInteractionMsg(*anchor.Message.Interaction, referenceTime)
	if err != nil {
		return nil, err
	}

	for _, env := range tr[1:] {
		role, known := v.ValidPKs[env.SignerChannelPubkey]
		if !known {
			return nil, simerr.New(simerr.KindProtocol, "verifier.VerifyTranscript",
				fmt.Errorf("message signed by unvalidated channel pubkey %s", env.SignerChannelPubkey))
		}
		switch env.Message.Kind {
		case message.KindWitnessStatement:
			if role != RoleWitness {
				return nil, simerr.New(simerr.KindProtocol, "verifier.VerifyTranscript",
					fmt.Errorf("witness statement signed by non-witness pubkey %s", env.SignerChannelPubkey))
			}
			stmt := *env.Message.WitnessStatement
			v.WitnessStatements[env.SignerChannelPubkey] = append(v.WitnessStatements[env.SignerChannelPubkey], stmt)
		case message.KindApplicationMsg, message.KindCompensationMsg:
			if role != RoleParticipant {
				return nil, simerr.New(simerr.KindProtocol, "verifier.VerifyTranscript",
					fmt.Errorf("application/compensation message signed by non-participant pubkey %s", env.SignerChannelPubkey))
			}
		default:
			return nil, simerr.New(simerr.KindProtocol, "verifier.VerifyTranscript", fmt.Errorf("unexpected message kind %s", env.Message.Kind))
		}
	}

	return v, nil
}

func verifyInteractionMsg(im message.InteractionMsg, referenceTime int64) (*Validated, error) {
	if len(im.ParticipantSigs) != 2 {
		return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("want exactly 2 participant signatures, got %d", len(im.ParticipantSigs)))
	}

	contract := im.ParticipantSigs[0].Contract
	if contract.Application != message.ExchangeApplication {
		return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("contract application is %q, want %q", contract.Application, message.ExchangeApplication))
	}
	validPKs := make(map[string]Role)

	for i, sig := range im.WitnessSigs {
		pub, err := crypto.MultibaseDecode(sig.SignerChannelPubkey)
		if err != nil {
			return nil, simerr.New(simerr.KindCrypto, "verifier.verifyInteractionMsg", fmt.Errorf("witness %d: %w", i, err))
		}
		if !sig.Verify(pub) {
			return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("witness %d: signature invalid", i))
		}
		if err := sig.OrgCert.Verify(referenceTime); err != nil {
			return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("witness %d: %w", i, err))
		}
		if !sig.Contract.Equal(contract) {
			return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("witness %d: contract mismatch", i))
		}
		validPKs[sig.SignerChannelPubkey] = RoleWitness
	}

	expectedWitnessSigBytes := message.SortedWitnessSigBytes(im.WitnessSigs)

	for i, sig := range im.ParticipantSigs {
		pub, err := crypto.MultibaseDecode(sig.SignerChannelPubkey)
		if err != nil {
			return nil, simerr.New(simerr.KindCrypto, "verifier.verifyInteractionMsg", fmt.Errorf("participant %d: %w", i, err))
		}
		if !sig.Verify(pub) {
			return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("participant %d: signature invalid", i))
		}
		if err := sig.OrgCert.Verify(referenceTime); err != nil {
			return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("participant %d: %w", i, err))
		}
		if !sig.Contract.Equal(contract) {
			return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg", fmt.Errorf("participant %d: contract mismatch", i))
		}
		if string(sig.WitnessSigBytes) != string(expectedWitnessSigBytes) {
			return nil, simerr.New(simerr.KindProtocol, "verifier.verifyInteractionMsg",
				fmt.Errorf("participant %d: witness signature bytes do not match the witness roster actually attached", i))
		}
		validPKs[sig.SignerChannelPubkey] = RoleParticipant
	}

	return &Validated{
		Contract:          contract,
		ValidPKs:          validPKs,
		WitnessStatements: make(map[string][]message.WitnessStatement),
	}, nil
}
