package selection_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/application/selection"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/reputation"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/simulation"
)

func closeParticipants(n int) []identity.Participant {
	out := make([]identity.Participant, n)
	for i := range out {
		out[i] = identity.Participant{
			DIDMultibase: "zP" + string(rune('A'+i)),
			Organization: "acme",
			Latitude:     0,
			Longitude:    0,
		}
	}
	return out
}

func TestSelectSucceedsWhenEveryoneIsCoLocated(t *testing.T) {
	participants := closeParticipants(6)
	repMap := reputation.NewMap(0.9)
	cfg := simulation.Config{AverageProximity: 10, WitnessFloor: 2, AveragePassesFloor: 0.5, MaxSelectionTries: 100}
	rng := rand.New(rand.NewSource(7))

	result, err := selection.Select(rng, participants, repMap, cfg)
	require.NoError(t, err)
	require.NotEqual(t, result.Initiator, result.Counterparty)
	require.GreaterOrEqual(t, len(result.Witnesses), cfg.WitnessFloor)
}

func TestSelectFailsWhenTooFewParticipants(t *testing.T) {
	participants := closeParticipants(1)
	repMap := reputation.NewMap(0.9)
	cfg := simulation.Config{AverageProximity: 10, WitnessFloor: 2, AveragePassesFloor: 0.5, MaxSelectionTries: 100}
	rng := rand.New(rand.NewSource(7))

	_, err := selection.Select(rng, participants, repMap, cfg)
	require.Error(t, err)
	require.True(t, simerr.Is(err, simerr.KindSelectionFailure))
}

func TestSelectFailsWhenFloorUnreachable(t *testing.T) {
	// Far apart participants with AverageProximity near zero almost never
	// fall within each other's drawn threshold.
	participants := make([]identity.Participant, 5)
	for i := range participants {
		participants[i] = identity.Participant{
			DIDMultibase: "zP" + string(rune('A'+i)),
			Organization: "acme",
			Latitude:     float64(i) * 1000,
			Longitude:    float64(i) * 1000,
		}
	}
	repMap := reputation.NewMap(0.9)
	cfg := simulation.Config{AverageProximity: 0.0001, WitnessFloor: 2, AveragePassesFloor: 0.5, MaxSelectionTries: 20}
	rng := rand.New(rand.NewSource(7))

	_, err := selection.Select(rng, participants, repMap, cfg)
	require.Error(t, err)
	require.True(t, simerr.Is(err, simerr.KindSelectionFailure))
	require.True(t, simerr.Local(err))
}
