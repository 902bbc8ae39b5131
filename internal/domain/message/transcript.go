package message

// Kind tags the variant of a Message in a Transcript.
type Kind string

const (
	KindInteractionMsg    Kind = "InteractionMsg"
	KindWitnessStatement  Kind = "WitnessStatement"
	KindApplicationMsg    Kind = "ApplicationMsg"
	KindCompensationMsg   Kind = "CompensationMsg"
)

// InteractionMsg anchors the interaction: it carries both participants'
// InteractionSigs, each of which transitively commits to the contract, the
// witness roster, and the concatenated witness signature bytes. Publishing
// this message is the linearization point of the interaction (spec.md §4.4).
type InteractionMsg struct {
	ParticipantSigs [2]InteractionSig `json:"participantSigs"`
	WitnessSigs     []WitnessSig      `json:"witnessSigs"`
}

// WitnessStatement is a witness's post-hoc assertion about a single
// participant's honesty during the interaction it witnessed.
type WitnessStatement struct {
	InteractionHandle string `json:"interactionHandle"`
	AboutDIDPubkey    string `json:"aboutDidPubkey"`
	Honest            bool   `json:"honest"`
}

// ApplicationMsg is a free-form application-level message exchanged between
// participants after the interaction is anchored (e.g. delivery confirmation
// for the ExchangeApplication).
type ApplicationMsg struct {
	InteractionHandle string `json:"interactionHandle"`
	Body              string `json:"body"`
}

// CompensationMsg records a payment owed per the contract's compensation
// schedule being dispatched to Recipient.
type CompensationMsg struct {
	InteractionHandle string  `json:"interactionHandle"`
	Recipient         string  `json:"recipient"`
	Amount            float64 `json:"amount"`
}

// Message is one entry of a Transcript: exactly one of the embedded pointers
// is non-nil, discriminated by Kind.
type Message struct {
	Kind             Kind              `json:"kind"`
	Interaction      *InteractionMsg   `json:"interaction,omitempty"`
	WitnessStatement *WitnessStatement `json:"witnessStatement,omitempty"`
	Application      *ApplicationMsg   `json:"application,omitempty"`
	Compensation     *CompensationMsg  `json:"compensation,omitempty"`
}

// NewInteractionMsg wraps an InteractionMsg as a tagged Message.
func NewInteractionMsg(m InteractionMsg) Message {
	return Message{Kind: KindInteractionMsg, Interaction: &m}
}

// NewWitnessStatement wraps a WitnessStatement as a tagged Message.
func NewWitnessStatement(m WitnessStatement) Message {
	return Message{Kind: KindWitnessStatement, WitnessStatement: &m}
}

// NewApplicationMsg wraps an ApplicationMsg as a tagged Message.
func NewApplicationMsg(m ApplicationMsg) Message {
	return Message{Kind: KindApplicationMsg, Application: &m}
}

// NewCompensationMsg wraps a CompensationMsg as a tagged Message.
func NewCompensationMsg(m CompensationMsg) Message {
	return Message{Kind: KindCompensationMsg, Compensation: &m}
}

// Envelope pairs a Message with the multibase-encoded channel pubkey of
// whoever signed/published it. A Transcript is the ordered sequence of
// envelopes a verifier replays (spec.md §3, §4.5).
type Envelope struct {
	SignerChannelPubkey string  `json:"signerChannelPubkey"`
	Message             Message `json:"message"`
}

// Transcript is the strictly ordered record of everything published during
// one interaction, anchored by its single InteractionMsg entry.
type Transcript []Envelope

// Append adds an envelope to the end of the transcript.
func (t *Transcript) Append(signerChannelPubkey string, m Message) {
	*t = append(*t, Envelope{SignerChannelPubkey: signerChannelPubkey, Message: m})
}
