package simulation_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/domain/simulation"
)

func baseConfig() simulation.Config {
	return simulation.Config{
		NumParticipants:       4,
		Runs:                  10,
		AverageProximity:      1.0,
		WitnessFloor:          2,
		Reliability:           []float64{0.9, 0.9, 0.9, 0.9},
		ReliabilityThreshold:  []float64{0.5, 0.5, 0.5, 0.5},
		DefaultReliability:    []float64{0.5, 0.5, 0.5, 0.5},
		AveragePassesFloor:    0.5,
		MaxSelectionTries:     100,
		Seed:                  1,
	}
}

func TestConfigValidateRejectsMismatchedVectorLength(t *testing.T) {
	cfg := baseConfig()
	cfg.Reliability = cfg.Reliability[:2]
	require.Error(t, cfg.Validate())
}

func TestConfigValidateAcceptsValidConfig(t *testing.T) {
	require.NoError(t, baseConfig().Validate())
}

func TestScalarSweepStopsAtExclusiveUpperBound(t *testing.T) {
	v := simulation.SweepVariable{Kind: simulation.KindWitnessFloor, Start: 1, Stop: 4, Step: 1}
	require.Equal(t, 3, v.NumSteps())

	rng := rand.New(rand.NewSource(1))
	ctrl := simulation.NewController(baseConfig(), v, rng)

	var seen []int
	for {
		cfg, _, ok := ctrl.Next()
		if !ok {
			break
		}
		seen = append(seen, cfg.WitnessFloor)
	}
	require.Equal(t, []int{1, 2, 3}, seen)
}

func TestNumParticipantsSweepResizesVectors(t *testing.T) {
	v := simulation.SweepVariable{Kind: simulation.KindNumParticipants, Start: 4, Stop: 7, Step: 1}
	rng := rand.New(rand.NewSource(1))
	ctrl := simulation.NewController(baseConfig(), v, rng)

	cfg, _, ok := ctrl.Next()
	require.True(t, ok)
	require.Equal(t, 4, cfg.NumParticipants)
	require.NoError(t, cfg.Validate())

	cfg, _, ok = ctrl.Next()
	require.True(t, ok)
	require.Equal(t, 5, cfg.NumParticipants)
	require.NoError(t, cfg.Validate())
}

func TestVectorSweepSampleMeanWithinTolerance(t *testing.T) {
	v := simulation.SweepVariable{
		Kind:           simulation.KindReliability,
		Start:          0.5,
		Stop:           0.6,
		Step:           0.2,
		StdDev:         0.01,
		SamplesPerStep: 2000,
	}
	rng := rand.New(rand.NewSource(42))
	ctrl := simulation.NewController(baseConfig(), v, rng)

	cfg, value, ok := ctrl.Next()
	require.True(t, ok)
	require.InDelta(t, 0.5, value, 1e-9)

	for _, r := range cfg.Reliability {
		require.InDelta(t, 0.5, r, 0.01)
	}
}
