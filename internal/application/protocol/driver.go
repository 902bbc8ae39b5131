// Package protocol drives one interaction end to end: the subscription
// handshake, the witness signature round, the participant signature round,
// anchoring the InteractionMsg, the witnesses' honesty statements, and the
// contract's compensation messages (spec.md §4.4).
package protocol

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/message"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/transport"
	"github.com/execution-hub/witnessrep/internal/application/selection"
	"github.com/execution-hub/witnessrep/internal/application/verdict"
)

// Outcome is everything one Transact call produces: the transcript a
// verifier would later replay, the ground-truth honesty each participant
// actually exhibited (for the simulation's own MSE bookkeeping, never
// exposed to the protocol participants themselves), and the verdict the
// witness statements support.
type Outcome struct {
	Transcript    message.Transcript
	ActualHonesty map[string]bool // DID multibase -> ground truth
	Verdict       verdict.Verdict
}

// Transact runs one full interaction among participants[sel.Initiator],
// participants[sel.Counterparty], and the witnesses at participants[sel.Witnesses],
// publishing every step over port under runIndex.
func Transact(
	ctx context.Context,
	rng *rand.Rand,
	port transport.Port,
	runIndex int,
	contract message.Contract,
	participants []identity.Participant,
	certs map[string]identity.OrganizationCertificate,
	sel selection.Result,
	witnessStrategies map[int]LazyWitnessStrategy,
) (Outcome, error) {
	initiator := participants[sel.Initiator]
	counterparty := participants[sel.Counterparty]

	initiatorChannel, err := crypto.GenerateKeyPair()
	if err != nil {
		return Outcome{}, simerr.New(simerr.KindCrypto, "protocol.Transact", err)
	}
	counterpartyChannel, err := crypto.GenerateKeyPair()
	if err != nil {
		return Outcome{}, simerr.New(simerr.KindCrypto, "protocol.Transact", err)
	}
	initiatorChannelPub, err := crypto.MultibaseEncode(initiatorChannel.Public)
	if err != nil {
		return Outcome{}, simerr.New(simerr.KindCrypto, "protocol.Transact", err)
	}
	counterpartyChannelPub, err := crypto.MultibaseEncode(counterpartyChannel.Public)
	if err != nil {
		return Outcome{}, simerr.New(simerr.KindCrypto, "protocol.Transact", err)
	}

	witnessChannels := make([]crypto.KeyPair, len(sel.Witnesses))
	witnessChannelPubs := make([]string, len(sel.Witnesses))
	for i := range sel.Witnesses {
		kp, err := crypto.GenerateKeyPair()
		if err != nil {
			return Outcome{}, simerr.New(simerr.KindCrypto, "protocol.Transact", err)
		}
		pub, err := crypto.MultibaseEncode(kp.Public)
		if err != nil {
			return Outcome{}, simerr.New(simerr.KindCrypto, "protocol.Transact", err)
		}
		witnessChannels[i] = kp
		witnessChannelPubs[i] = pub
	}

	if err := subscriptionHandshake(ctx, port, runIndex, initiatorChannelPub, counterpartyChannelPub, witnessChannelPubs); err != nil {
		return Outcome{}, err
	}

	initiatorCert, ok := certs[initiator.DIDMultibase]
	if !ok {
		return Outcome{}, simerr.New(simerr.KindProtocol, "protocol.Transact", fmt.Errorf("no organization certificate for initiator %s", initiator.DIDMultibase))
	}
	counterpartyCert, ok := certs[counterparty.DIDMultibase]
	if !ok {
		return Outcome{}, simerr.New(simerr.KindProtocol, "protocol.Transact", fmt.Errorf("no organization certificate for counterparty %s", counterparty.DIDMultibase))
	}

	witnessDIDs := make([]string, len(sel.Witnesses))
	witnessSigs := make([]message.WitnessSig, len(sel.Witnesses))
	for i, idx := range sel.Witnesses {
		w := participants[idx]
		cert, ok := certs[w.DIDMultibase]
		if !ok {
			return Outcome{}, simerr.New(simerr.KindProtocol, "protocol.Transact", fmt.Errorf("no organization certificate for witness %s", w.DIDMultibase))
		}
		preSig := message.WitnessPreSig{
			Contract:            contract,
			SignerChannelPubkey: witnessChannelPubs[i],
			OrgCert:             cert,
			Timeout:             contract.Timeout,
		}
		sig, err := message.SignWitnessPreSig(preSig, witnessChannels[i].Private, w.DIDMultibase)
		if err != nil {
			return Outcome{}, err
		}
		if payload, err := crypto.CanonicalJSON(sig); err == nil {
			_ = port.PublishSignedPacket(ctx, runIndex, witnessChannelPubs[i], append([]byte(strconv.Itoa(runIndex)), payload...))
		}
		witnessSigs[i] = sig
		witnessDIDs[i] = w.DIDMultibase
	}

	witnessSigBytes := message.SortedWitnessSigBytes(witnessSigs)

	initiatorPreSig := message.InteractionPreSig{
		Contract: contract, SignerChannelPubkey: initiatorChannelPub,
		Witnesses: witnessDIDs, WitnessSigBytes: witnessSigBytes,
		OrgCert: initiatorCert, Timeout: contract.Timeout,
	}
	counterpartyPreSig := message.InteractionPreSig{
		Contract: contract, SignerChannelPubkey: counterpartyChannelPub,
		Witnesses: witnessDIDs, WitnessSigBytes: witnessSigBytes,
		OrgCert: counterpartyCert, Timeout: contract.Timeout,
	}

	initiatorSig, err := message.SignInteractionPreSig(initiatorPreSig, initiatorChannel.Private, initiator.DIDMultibase)
	if err != nil {
		return Outcome{}, err
	}
	counterpartySig, err := message.SignInteractionPreSig(counterpartyPreSig, counterpartyChannel.Private, counterparty.DIDMultibase)
	if err != nil {
		return Outcome{}, err
	}

	interactionMsg := message.InteractionMsg{
		ParticipantSigs: [2]message.InteractionSig{initiatorSig, counterpartySig},
		WitnessSigs:     witnessSigs,
	}

	var tr message.Transcript
	if payload, err := crypto.CanonicalJSON(interactionMsg); err == nil {
		_ = port.PublishSignedPacket(ctx, runIndex, initiatorChannelPub, append([]byte(strconv.Itoa(runIndex)), payload...))
	}
	tr.Append(initiatorChannelPub, message.NewInteractionMsg(interactionMsg))

	actualHonesty := map[string]bool{
		initiator.DIDMultibase:    true, // initiator is always honest (spec.md §4.4)
		counterparty.DIDMultibase: rng.Float64() < counterparty.TrueReliability,
	}

	// Each witness's own honesty is drawn from its TrueReliability, exactly
	// like the counterparty's above — not from the lazy strategy, which only
	// decides what a dishonest witness reports (spec.md §4.4;
	// original_source get_honest_nodes/lazy_outcome).
	witnessHonesty := make(map[string]bool, len(sel.Witnesses))
	for _, idx := range sel.Witnesses {
		w := participants[idx]
		witnessHonesty[w.DIDMultibase] = rng.Float64() < w.TrueReliability
	}

	var statements []verdict.Statement
	for i, idx := range sel.Witnesses {
		w := participants[idx]
		strategy := witnessStrategies[idx]
		if strategy == nil {
			strategy = RandomLazyStrategy{}
		}
		for _, about := range []identity.Participant{initiator, counterparty} {
			var outcome bool
			if witnessHonesty[w.DIDMultibase] {
				outcome = actualHonesty[about.DIDMultibase]
			} else {
				outcome = strategy.LazyOutcome(rng)
			}
			stmt := message.WitnessStatement{InteractionHandle: contract.AnnouncementHandle, AboutDIDPubkey: about.DIDMultibase, Honest: outcome}
			if payload, err := crypto.CanonicalJSON(stmt); err == nil {
				_ = port.PublishSignedPacket(ctx, runIndex, witnessChannelPubs[i], append([]byte(strconv.Itoa(runIndex)), payload...))
			}
			tr.Append(witnessChannelPubs[i], message.NewWitnessStatement(stmt))
			statements = append(statements, verdict.Statement{WitnessDID: w.DIDMultibase, AboutDID: about.DIDMultibase, Honest: outcome})
		}
	}

	for _, payment := range contract.CompensationSchedule {
		recipient := resolveRecipient(payment.Recipient, contract, witnessDIDs)
		comp := message.CompensationMsg{InteractionHandle: contract.AnnouncementHandle, Recipient: recipient, Amount: payment.Amount}
		if payload, err := crypto.CanonicalJSON(comp); err == nil {
			_ = port.PublishSignedPacket(ctx, runIndex, initiatorChannelPub, append([]byte(strconv.Itoa(runIndex)), payload...))
		}
		tr.Append(initiatorChannelPub, message.NewCompensationMsg(comp))
	}

	v := verdict.Generate(statements, []string{initiator.DIDMultibase, counterparty.DIDMultibase})

	return Outcome{Transcript: tr, ActualHonesty: actualHonesty, Verdict: v}, nil
}

// resolveRecipient maps a Payment's recipient role label to a concrete DID.
// "witnesses" is kept as the literal recipient "witnesses" for the witness
// roster; Amount is passed through unchanged. Any other label is resolved
// against the contract's participant roles, and an unknown label is returned
// as is.
func resolveRecipient(role string, contract message.Contract, witnessDIDs []string) string {
	if role == "witnesses" {
		return "witnesses"
	}
	for _, p := range contract.Participants {
		if p.Role == role {
			return p.DIDPubkey
		}
	}
	return role
}

func subscriptionHandshake(ctx context.Context, port transport.Port, runIndex int, initiatorChannelPub, counterpartyChannelPub string, witnessChannelPubs []string) error {
	all := append([]string{initiatorChannelPub, counterpartyChannelPub}, witnessChannelPubs...)
	for _, owner := range all {
		if err := port.SendAnnounce(ctx, runIndex, owner); err != nil {
			return simerr.New(simerr.KindTransport, "protocol.subscriptionHandshake", err)
		}
	}
	for _, owner := range all {
		for _, subscriber := range all {
			if owner == subscriber {
				continue
			}
			if err := port.Subscribe(ctx, runIndex, owner, subscriber); err != nil {
				return simerr.New(simerr.KindTransport, "protocol.subscriptionHandshake", err)
			}
		}
		if err := port.SendKeyloadForEveryone(ctx, runIndex, owner); err != nil {
			return simerr.New(simerr.KindTransport, "protocol.subscriptionHandshake", err)
		}
	}
	return nil
}
