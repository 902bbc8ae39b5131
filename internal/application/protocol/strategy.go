package protocol

import "math/rand"

// LazyWitnessStrategy produces the outcome a witness drawn dishonest reports
// about a participant, independent of what it actually observed. "Lazy"
// follows the original source's naming (lazy_outcome): these witnesses never
// do the work of genuinely assessing a participant, they just apply a fixed
// or random policy (spec.md §4.4). Whether a witness is dishonest in the
// first place is drawn from its own TrueReliability, never from this
// strategy.
type LazyWitnessStrategy interface {
	LazyOutcome(rng *rand.Rand) bool
}

// ConstantLazyStrategy always reports Outcome, regardless of what happened.
type ConstantLazyStrategy struct {
	Outcome bool
}

func (s ConstantLazyStrategy) LazyOutcome(rng *rand.Rand) bool { return s.Outcome }

// RandomLazyStrategy reports a fresh coin flip each time, drawn from the
// run's single seeded rng.
type RandomLazyStrategy struct{}

func (s RandomLazyStrategy) LazyOutcome(rng *rand.Rand) bool { return rng.Float64() > 0.5 }
