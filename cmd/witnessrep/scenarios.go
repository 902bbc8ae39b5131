package main

import (
	"math/rand"

	"github.com/execution-hub/witnessrep/internal/application/protocol"
	"github.com/execution-hub/witnessrep/internal/application/simulate"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/simulation"
	"github.com/execution-hub/witnessrep/internal/infrastructure/didprovision"
)

// scenario bundles everything one end-to-end demo run needs: a base
// config, the sweep variable to drive it with (nil for a single run), and
// the fixed contract shell every interaction in the scenario shares
// (spec.md §8).
type scenario struct {
	name     string
	config   simulation.Config
	sweep    *simulation.SweepVariable
	template simulate.ContractTemplate
}

func vector(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func baseTemplate() simulate.ContractTemplate {
	return simulate.ContractTemplate{
		AnnouncementHandle: "witnessrep-demo",
		Offer:               "widget for coin",
		Time:                 1_700_000_000,
		Timeout:              1_700_000_300,
	}
}

// simpleRunScenario is a four-participant, fully-honest run with a witness
// floor of one — the smoke test every other scenario is checked against.
func simpleRunScenario() scenario {
	n := 4
	return scenario{
		name: "simple-run",
		config: simulation.Config{
			NumParticipants: n, Runs: 1, AverageProximity: 5, WitnessFloor: 1,
			Reliability: vector(n, 1.0), ReliabilityThreshold: vector(n, 0.5), DefaultReliability: vector(n, 0.5),
			AveragePassesFloor: 0.0, MaxSelectionTries: 100, Seed: 1,
		},
		template: baseTemplate(),
	}
}

// noWitnessScenario sets WitnessFloor above what AverageProximity can ever
// supply, so every interaction attempt exhausts MaxSelectionTries and the
// scenario demonstrates the tolerated SelectionFailure path (spec.md §7).
func noWitnessScenario() scenario {
	n := 4
	return scenario{
		name: "no-witness",
		config: simulation.Config{
			NumParticipants: n, Runs: 1, AverageProximity: 0.0001, WitnessFloor: 3,
			Reliability: vector(n, 1.0), ReliabilityThreshold: vector(n, 0.5), DefaultReliability: vector(n, 0.5),
			AveragePassesFloor: 0.0, MaxSelectionTries: 10, Seed: 1,
		},
		template: baseTemplate(),
	}
}

// sweepNumParticipantsScenario sweeps the population size from 4 to 10.
func sweepNumParticipantsScenario() scenario {
	n := 4
	v := simulation.SweepVariable{Kind: simulation.KindNumParticipants, Start: 4, Stop: 11, Step: 1}
	return scenario{
		name: "sweep-num-participants",
		config: simulation.Config{
			NumParticipants: n, Runs: 20, AverageProximity: 5, WitnessFloor: 1,
			Reliability: vector(n, 0.8), ReliabilityThreshold: vector(n, 0.5), DefaultReliability: vector(n, 0.5),
			AveragePassesFloor: 0.0, MaxSelectionTries: 100, Seed: 2,
		},
		sweep:    &v,
		template: baseTemplate(),
	}
}

// sweepProximityScenario sweeps AverageProximity from near-zero to wide.
func sweepProximityScenario() scenario {
	n := 6
	v := simulation.SweepVariable{Kind: simulation.KindAverageProximity, Start: 0.1, Stop: 5, Step: 0.5}
	return scenario{
		name: "sweep-proximity",
		config: simulation.Config{
			NumParticipants: n, Runs: 20, AverageProximity: 0.1, WitnessFloor: 1,
			Reliability: vector(n, 0.8), ReliabilityThreshold: vector(n, 0.5), DefaultReliability: vector(n, 0.5),
			AveragePassesFloor: 0.0, MaxSelectionTries: 100, Seed: 3,
		},
		sweep:    &v,
		template: baseTemplate(),
	}
}

// sweepReliabilityScenario redraws every participant's ground-truth
// reliability each step as a Gaussian around a rising mean (spec.md §4.9).
func sweepReliabilityScenario() scenario {
	n := 6
	v := simulation.SweepVariable{
		Kind: simulation.KindReliability, Start: 0.3, Stop: 1.0, Step: 0.1,
		StdDev: 0.05, SamplesPerStep: 200,
	}
	return scenario{
		name: "sweep-reliability",
		config: simulation.Config{
			NumParticipants: n, Runs: 20, AverageProximity: 5, WitnessFloor: 1,
			Reliability: vector(n, 0.3), ReliabilityThreshold: vector(n, 0.5), DefaultReliability: vector(n, 0.5),
			AveragePassesFloor: 0.0, MaxSelectionTries: 100, Seed: 4,
		},
		sweep:    &v,
		template: baseTemplate(),
	}
}

// tamperedTranscriptScenario runs one interaction and then hands its
// transcript to the verifier after flipping a byte, demonstrating that
// ProtocolError is raised rather than silently accepted.
func tamperedTranscriptScenario() scenario {
	return simpleRunScenario()
}

func scenarioByName(name string) (scenario, bool) {
	switch name {
	case "simple-run":
		return simpleRunScenario(), true
	case "no-witness":
		return noWitnessScenario(), true
	case "sweep-num-participants":
		return sweepNumParticipantsScenario(), true
	case "sweep-proximity":
		return sweepProximityScenario(), true
	case "sweep-reliability":
		return sweepReliabilityScenario(), true
	case "tampered-transcript":
		return tamperedTranscriptScenario(), true
	default:
		return scenario{}, false
	}
}

// buildParticipants mints cfg.NumParticipants deterministic DID identities
// from rng and assigns each its ground-truth reliability and a uniformly
// scattered coordinate.
func buildParticipants(rng *rand.Rand, cfg simulation.Config, orgName string) ([]identity.Participant, error) {
	ids, err := didprovision.CreateN(cfg.NumParticipants, didprovision.Testing, rng)
	if err != nil {
		return nil, err
	}
	out := make([]identity.Participant, cfg.NumParticipants)
	for i, id := range ids {
		out[i] = identity.Participant{
			DIDPublic: id.Public, DIDPrivate: id.Private, DIDMultibase: id.PublicMultibase,
			TrueReliability: cfg.Reliability[i],
			Latitude:        rng.Float64() * 10,
			Longitude:       rng.Float64() * 10,
			Organization:    orgName,
		}
	}
	return out, nil
}

// lazyStrategies assigns every witness by index the lazy-outcome policy it
// falls back to when its own TrueReliability draw comes up dishonest
// (spec.md §9 Open Questions: witness dishonesty is a driver concern, not
// a persisted parameter). lieRate does not control whether a witness is
// honest — that is drawn from TrueReliability — only what it reports once
// it has already been drawn dishonest.
func lazyStrategies(witnessIndices []int, lieRate float64) map[int]protocol.LazyWitnessStrategy {
	out := make(map[int]protocol.LazyWitnessStrategy)
	for _, idx := range witnessIndices {
		if lieRate >= 1 {
			out[idx] = protocol.ConstantLazyStrategy{Outcome: true}
		} else if lieRate > 0 {
			out[idx] = protocol.RandomLazyStrategy{}
		}
	}
	return out
}
