// Package simulation holds the SimulationConfig the outer driver runs from,
// and the SweepVariable tagged union the sweep controller iterates over
// (spec.md §3, §4.8, §4.9).
package simulation

import (
	"fmt"

	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// Config is every parameter one simulation run needs. Reliability,
// ReliabilityThreshold, and DefaultReliability are per-participant vectors;
// their length must equal NumParticipants (spec.md §7 ConfigError).
type Config struct {
	NumParticipants int
	Runs            int

	// AverageProximity is the mean of the exponential distribution from
	// which each proximity threshold is drawn during counterparty and
	// witness selection.
	AverageProximity float64

	// WitnessFloor is the minimum number of witnesses an interaction
	// requires to proceed.
	WitnessFloor int

	// Reliability is participant i's true (ground-truth) reliability.
	Reliability []float64

	// ReliabilityThreshold is participant i's reputation threshold. It is
	// length-checked by Validate and can be swept, but neither selection nor
	// verdict generation reads it; selection applies AveragePassesFloor to
	// every candidate instead.
	ReliabilityThreshold []float64

	// DefaultReliability is participant i's default reputation score
	// before any interaction has been recorded for it.
	DefaultReliability []float64

	// AveragePassesFloor is the organization-level admission gate (spec.md
	// §4.2, §4.4).
	AveragePassesFloor float64

	// MaxSelectionTries bounds how many times the selection algorithm
	// retries before giving up with SelectionFailure (spec.md §4.7).
	MaxSelectionTries int

	// Seed seeds the single *rand.Rand threaded through the whole run, so
	// two runs built from the same Config are bit-for-bit reproducible.
	Seed int64
}

// Validate checks the vector-length invariant and returns a ConfigError
// (simerr.KindConfig) describing the first violation found.
func (c Config) Validate() error {
	if c.NumParticipants <= 0 {
		return simerr.New(simerr.KindConfig, "Config.Validate", fmt.Errorf("num_participants must be positive, got %d", c.NumParticipants))
	}
	if c.Runs <= 0 {
		return simerr.New(simerr.KindConfig, "Config.Validate", fmt.Errorf("runs must be positive, got %d", c.Runs))
	}
	if c.WitnessFloor < 0 {
		return simerr.New(simerr.KindConfig, "Config.Validate", fmt.Errorf("witness_floor must be non-negative, got %d", c.WitnessFloor))
	}
	for name, vec := range map[string][]float64{
		"reliability":           c.Reliability,
		"reliability_threshold": c.ReliabilityThreshold,
		"default_reliability":   c.DefaultReliability,
	} {
		if len(vec) != c.NumParticipants {
			return simerr.New(simerr.KindConfig, "Config.Validate",
				fmt.Errorf("%s has length %d, want %d (num_participants)", name, len(vec), c.NumParticipants))
		}
	}
	return nil
}

// Clone returns a deep copy of c, so sweep iteration can mutate one field of
// a fresh copy per step without aliasing the base config's slices.
func (c Config) Clone() Config {
	out := c
	out.Reliability = append([]float64(nil), c.Reliability...)
	out.ReliabilityThreshold = append([]float64(nil), c.ReliabilityThreshold...)
	out.DefaultReliability = append([]float64(nil), c.DefaultReliability...)
	return out
}
