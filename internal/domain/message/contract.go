// Package message defines the wire schema of the protocol: the Contract, the
// nested signature envelopes (WitnessSig, InteractionSig), and the tagged
// union of transcript messages (InteractionMsg, WitnessStatement,
// ApplicationMsg). Struct field order is the canonical JSON order — see
// internal/domain/crypto.CanonicalJSON.
package message

// Application identifies which hard-coded application contract format a
// Contract carries. "exchange" is the only application the CORE
// parameterizes over (spec.md §1 Non-goals).
type Application string

// ExchangeApplication is the one hard-coded application this CORE supports.
const ExchangeApplication Application = "ExchangeApplication"

// ParticipantRole binds a participant's DID pubkey to its role label within
// a contract (e.g. "tn_a", "tn_b").
type ParticipantRole struct {
	DIDPubkey string `json:"didPubkey"`
	Role      string `json:"role"`
}

// Payment is one line of the contract's compensation schedule. Recipient is
// either a role label declared in Participants or the literal "witnesses".
type Payment struct {
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// Coordinate is a degrees/minutes/seconds triplet.
type Coordinate struct {
	Degrees float64 `json:"degrees"`
	Minutes float64 `json:"minutes"`
	Seconds float64 `json:"seconds"`
}

// Contract is the tagged-variant application-level agreement. Only the
// "exchange" application is populated today; Application discriminates for
// forward compatibility and is checked by the verifier against the expected
// application tag.
type Contract struct {
	Application         Application       `json:"application"`
	AnnouncementHandle   string            `json:"announcementHandle"`
	Offer                string            `json:"offer"`
	Participants         []ParticipantRole `json:"participants"`
	CompensationSchedule []Payment         `json:"compensationSchedule"`
	Time                 int64             `json:"time"`
	Location             [2]Coordinate     `json:"location"`
	Timeout              int64             `json:"timeout"`
}

// Equal reports whether two contracts are identical in content. Contracts
// are immutable once signed, so verifiers compare by value, not pointer.
func (c Contract) Equal(other Contract) bool {
	if c.Application != other.Application ||
		c.AnnouncementHandle != other.AnnouncementHandle ||
		c.Offer != other.Offer ||
		c.Time != other.Time ||
		c.Timeout != other.Timeout ||
		c.Location != other.Location {
		return false
	}
	if len(c.Participants) != len(other.Participants) {
		return false
	}
	for i := range c.Participants {
		if c.Participants[i] != other.Participants[i] {
			return false
		}
	}
	if len(c.CompensationSchedule) != len(other.CompensationSchedule) {
		return false
	}
	for i := range c.CompensationSchedule {
		if c.CompensationSchedule[i] != other.CompensationSchedule[i] {
			return false
		}
	}
	return true
}
