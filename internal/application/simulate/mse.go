package simulate

import (
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/reputation"
)

// FailedMSE is the sentinel returned by ComputeMSE when any interaction in
// the sweep step failed. It is deliberately not clamped to a real error
// value: since every genuine MSE is non-negative, -1 always "wins" an
// argmin search, which the original optimizer relies on to treat a fully
// failed sweep point as trivially "best" rather than excluding it. This is
// a preserved quirk, not a bug to fix (spec.md §9 Open Questions).
const FailedMSE = -1

// ComputeMSE compares each participant's organization-scoped reputation
// score against its ground-truth TrueReliability and returns the mean
// squared error over all participants with at least one recorded estimate
// (spec.md §4.9); participants never estimated are excluded rather than
// folded in at the map's default. If anyFailed is true it returns FailedMSE
// unconditionally.
func ComputeMSE(participants []identity.Participant, repMap *reputation.Map, anyFailed bool) float64 {
	if anyFailed {
		return FailedMSE
	}
	sum := 0.0
	estimated := 0
	for _, p := range participants {
		if !repMap.HasEstimate(p.Organization, p.DIDMultibase) {
			continue
		}
		diff := repMap.Score(p.Organization, p.DIDMultibase) - p.TrueReliability
		sum += diff * diff
		estimated++
	}
	if estimated == 0 {
		return 0
	}
	return sum / float64(estimated)
}
