package simulate

import (
	"context"
	"math/rand"

	"github.com/execution-hub/witnessrep/internal/application/protocol"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/reputation"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/simulation"
	"github.com/execution-hub/witnessrep/internal/domain/transport"
)

// StepResult is one sweep step's outcome: the independent-variable value
// that produced it, the MSE at that step (or FailedMSE), and how many of
// the step's interactions were tolerated failures (SelectionFailure or
// NotAdmitted).
type StepResult struct {
	Value      float64
	MSE        float64
	FailedRuns int
	TotalRuns  int
}

// RunSweep drives variable across base's steps. For each step it builds a
// fresh participant roster's reputation.Map, runs cfg.Runs interactions
// (newParticipants is invoked once per step so vector sweeps that redraw
// TrueReliability can hand back participants whose ground truth matches the
// step's drawn values), and scores the step with ComputeMSE.
func RunSweep(
	ctx context.Context,
	rng *rand.Rand,
	port transport.Port,
	base simulation.Config,
	variable simulation.SweepVariable,
	orgs map[string]identity.Organization,
	newParticipants func(cfg simulation.Config) []identity.Participant,
	witnessStrategies map[int]protocol.LazyWitnessStrategy,
	tmpl ContractTemplate,
) ([]StepResult, error) {
	ctrl := simulation.NewController(base, variable, rng)

	var results []StepResult
	runIndex := 0
	for {
		cfg, value, ok := ctrl.Next()
		if !ok {
			break
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		participants := newParticipants(cfg)
		repMap := reputation.NewMap(cfg.DefaultReliability[0])
		for i, p := range participants {
			repMap.Record(p.Organization, p.DIDMultibase, cfg.DefaultReliability[min(i, len(cfg.DefaultReliability)-1)])
		}

		failed := 0
		for r := 0; r < cfg.Runs; r++ {
			_, err := RunInteraction(ctx, rng, port, runIndex, participants, orgs, repMap, cfg, witnessStrategies, tmpl)
			runIndex++
			if err != nil {
				if simerr.Local(err) {
					failed++
					continue
				}
				return nil, err
			}
		}

		mse := ComputeMSE(participants, repMap, failed > 0)
		results = append(results, StepResult{Value: value, MSE: mse, FailedRuns: failed, TotalRuns: cfg.Runs})
	}
	return results, nil
}

// ArgMin returns the index of the step with the lowest MSE. Because
// FailedMSE is negative, a step where every interaction failed always wins
// this search — the preserved quirk ComputeMSE documents.
func ArgMin(results []StepResult) int {
	best := 0
	for i, r := range results {
		if r.MSE < results[best].MSE {
			best = i
		}
		_ = r
	}
	return best
}
