package identity

import "crypto/ed25519"

// Participant is an actor in the protocol: a stable DID keypair used for
// long-lived identity, plus the reliability and proximity parameters the
// simulation driver uses to decide who it is honest with and who it can
// reach (spec.md §3).
type Participant struct {
	DIDPublic  ed25519.PublicKey
	DIDPrivate ed25519.PrivateKey

	// DIDMultibase is the multibase-encoded form of DIDPublic, cached
	// because it appears in nearly every signed message.
	DIDMultibase string

	// TrueReliability is the ground-truth probability this participant
	// behaves honestly when drawn to act as counterparty or witness; an
	// initiator is always treated as honest. It is never exposed to other participants or the verifier;
	// only the simulation driver and the ground-truth MSE comparison see
	// it (spec.md §4.9).
	TrueReliability float64

	// Latitude/Longitude place the participant for proximity-gated
	// counterparty and witness selection (spec.md §4.7).
	Latitude  float64
	Longitude float64

	// Organization is the org this participant currently holds a
	// certificate from, by name.
	Organization string
}

// ChannelKeyPair is a disposable per-interaction keypair, generated fresh
// and unrelated to the participant's DID keypair (spec.md §4.4).
type ChannelKeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}
