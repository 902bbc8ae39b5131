// Package selection picks an interaction's initiator, counterparty, and
// witness roster: initiator is drawn uniformly, the counterparty and every
// witness candidate must fall within a proximity draw of the initiator (or
// counterparty, for witnesses) and clear its organization's average
// reputation floor, and the final witness roster is the INTERSECTION of
// both participants' candidate lists (spec.md §4.7 — this supersedes the
// original Rust source's set-union approach; the spec is authoritative).
package selection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/reputation"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/simulation"
)

// Result is one successful selection: indices into the caller's participant
// slice.
type Result struct {
	Initiator    int
	Counterparty int
	Witnesses    []int
}

// distance is the Euclidean distance between two participants' coordinates.
// The original system models physical proximity; a flat-plane approximation
// is adequate at simulation scale (spec.md §9 Open Questions).
func distance(a, b identity.Participant) float64 {
	dx := a.Latitude - b.Latitude
	dy := a.Longitude - b.Longitude
	return math.Sqrt(dx*dx + dy*dy)
}

// withinDraw reports whether b is reachable from a under a proximity
// threshold drawn from an exponential distribution with mean
// cfg.AverageProximity, per the original source's proximity model.
func withinDraw(rng *rand.Rand, a, b identity.Participant, averageProximity float64) bool {
	threshold := rng.ExpFloat64() * averageProximity
	return distance(a, b) <= threshold
}

// candidates returns every participant index (other than exclude) reachable
// from center under a fresh proximity draw and passing its organization's
// average-reputation floor.
func candidates(rng *rand.Rand, participants []identity.Participant, repMap *reputation.Map, cfg simulation.Config, center int, exclude map[int]bool) []int {
	var out []int
	for i, p := range participants {
		if i == center || exclude[i] {
			continue
		}
		if !withinDraw(rng, participants[center], p, cfg.AverageProximity) {
			continue
		}
		if !repMap.PassesFloor(p.Organization, p.DIDMultibase, cfg.AveragePassesFloor) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// intersect returns the sorted set intersection of two index slices.
func intersect(a, b []int) []int {
	inB := make(map[int]bool, len(b))
	for _, i := range b {
		inB[i] = true
	}
	var out []int
	for _, i := range a {
		if inB[i] {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Select draws an initiator, counterparty, and witness roster for one
// interaction, retrying up to cfg.MaxSelectionTries times before reporting a
// SelectionFailure (spec.md §4.7).
func Select(rng *rand.Rand, participants []identity.Participant, repMap *reputation.Map, cfg simulation.Config) (Result, error) {
	n := len(participants)
	if n < 2 {
		return Result{}, simerr.New(simerr.KindSelectionFailure, "selection.Select", fmt.Errorf("need at least 2 participants, have %d", n))
	}

	for try := 0; try < cfg.MaxSelectionTries; try++ {
		initiator := rng.Intn(n)

		counterpartyCandidates := candidates(rng, participants, repMap, cfg, initiator, map[int]bool{initiator: true})
		if len(counterpartyCandidates) == 0 {
			continue
		}
		counterparty := counterpartyCandidates[rng.Intn(len(counterpartyCandidates))]

		exclude := map[int]bool{initiator: true, counterparty: true}
		witnessesFromInitiator := candidates(rng, participants, repMap, cfg, initiator, exclude)
		witnessesFromCounterparty := candidates(rng, participants, repMap, cfg, counterparty, exclude)
		witnesses := intersect(witnessesFromInitiator, witnessesFromCounterparty)

		if len(witnesses) < cfg.WitnessFloor {
			continue
		}
		return Result{Initiator: initiator, Counterparty: counterparty, Witnesses: witnesses}, nil
	}

	return Result{}, simerr.New(simerr.KindSelectionFailure, "selection.Select",
		fmt.Errorf("no valid initiator/counterparty/witness-roster found in %d tries", cfg.MaxSelectionTries))
}
