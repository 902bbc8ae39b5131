// Package simulate drives the outer simulation loop: one interaction at a
// time, folding each interaction's verdict into the shared reputation.Map,
// then a sweep controller that repeats this over every step of a
// simulation.SweepVariable and scores each step against ground truth
// (spec.md §4.8, §4.9).
package simulate

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/execution-hub/witnessrep/internal/application/protocol"
	"github.com/execution-hub/witnessrep/internal/application/selection"
	"github.com/execution-hub/witnessrep/internal/application/verifier"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/message"
	"github.com/execution-hub/witnessrep/internal/domain/reputation"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/simulation"
	"github.com/execution-hub/witnessrep/internal/domain/transport"
)

// ContractTemplate supplies everything about a Contract that does not vary
// per interaction: the application, the offer text, the compensation
// schedule, and the interaction's time budget.
type ContractTemplate struct {
	AnnouncementHandle   string
	Offer                string
	CompensationSchedule []message.Payment
	Time                 int64
	Timeout              int64
}

// RunInteraction runs exactly one interaction: it selects an initiator,
// counterparty, and witness roster, checks the initiator's organization
// average-reputation gate, drives the protocol, verifies the resulting
// transcript, and folds the verdict into repMap.
//
// A SelectionFailure or NotAdmitted error is returned as-is (the caller,
// normally a sweep step, tolerates these per spec.md §7); any other error
// is fatal to the run.
func RunInteraction(
	ctx context.Context,
	rng *rand.Rand,
	port transport.Port,
	runIndex int,
	participants []identity.Participant,
	orgs map[string]identity.Organization,
	repMap *reputation.Map,
	cfg simulation.Config,
	witnessStrategies map[int]protocol.LazyWitnessStrategy,
	tmpl ContractTemplate,
) (protocol.Outcome, error) {
	sel, err := selection.Select(rng, participants, repMap, cfg)
	if err != nil {
		return protocol.Outcome{}, err
	}

	initiator := participants[sel.Initiator]
	counterparty := participants[sel.Counterparty]

	initiatorOrg, ok := orgs[initiator.Organization]
	if !ok {
		return protocol.Outcome{}, simerr.New(simerr.KindConfig, "simulate.RunInteraction", fmt.Errorf("unknown organization %q", initiator.Organization))
	}
	selectedDIDs := make([]string, 0, 2+len(sel.Witnesses))
	selectedDIDs = append(selectedDIDs, initiator.DIDMultibase, counterparty.DIDMultibase)
	for _, idx := range sel.Witnesses {
		selectedDIDs = append(selectedDIDs, participants[idx].DIDMultibase)
	}
	if !repMap.AveragePassesFloor(initiatorOrg.Name, selectedDIDs, initiatorOrg.AveragePassesFloor) {
		return protocol.Outcome{}, simerr.New(simerr.KindNotAdmitted, "simulate.RunInteraction",
			fmt.Errorf("organization %s average reputation of selected participants/witnesses below floor %.3f", initiatorOrg.Name, initiatorOrg.AveragePassesFloor))
	}

	contract := message.Contract{
		Application:        message.ExchangeApplication,
		AnnouncementHandle: tmpl.AnnouncementHandle,
		Offer:               tmpl.Offer,
		Participants: []message.ParticipantRole{
			{DIDPubkey: initiator.DIDMultibase, Role: "tn_a"},
			{DIDPubkey: counterparty.DIDMultibase, Role: "tn_b"},
		},
		CompensationSchedule: tmpl.CompensationSchedule,
		Time:                 tmpl.Time,
		Timeout:              tmpl.Timeout,
	}

	certs := make(map[string]identity.OrganizationCertificate)
	for _, idx := range append([]int{sel.Initiator, sel.Counterparty}, sel.Witnesses...) {
		p := participants[idx]
		org, ok := orgs[p.Organization]
		if !ok {
			return protocol.Outcome{}, simerr.New(simerr.KindConfig, "simulate.RunInteraction", fmt.Errorf("unknown organization %q", p.Organization))
		}
		cert, err := org.Certify(p.DIDMultibase, contract.Time)
		if err != nil {
			return protocol.Outcome{}, err
		}
		certs[p.DIDMultibase] = cert
	}

	outcome, err := protocol.Transact(ctx, rng, port, runIndex, contract, participants, certs, sel, witnessStrategies)
	if err != nil {
		return protocol.Outcome{}, err
	}

	if _, err := verifier.VerifyTranscript(outcome.Transcript, contract.Time+1); err != nil {
		return protocol.Outcome{}, err
	}

	for did, estimate := range outcome.Verdict.ParticipantReliability {
		repMap.Record(organizationOf(participants, did), did, estimate)
	}
	for did, estimate := range outcome.Verdict.WitnessReliability {
		repMap.Record(organizationOf(participants, did), did, estimate)
	}

	return outcome, nil
}

func organizationOf(participants []identity.Participant, did string) string {
	for _, p := range participants {
		if p.DIDMultibase == did {
			return p.Organization
		}
	}
	return ""
}
