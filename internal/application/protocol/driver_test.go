package protocol_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/application/protocol"
	"github.com/execution-hub/witnessrep/internal/application/selection"
	"github.com/execution-hub/witnessrep/internal/application/verifier"
	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/message"
	"github.com/execution-hub/witnessrep/internal/domain/transport"
)

// noopPort discards every publish; the driver's correctness does not depend
// on the transport actually delivering anything, only on the transcript it
// assembles in-process (spec.md §9).
type noopPort struct{}

func (noopPort) SendAnnounce(ctx context.Context, runIndex int, channelPubkey string) error {
	return nil
}
func (noopPort) Subscribe(ctx context.Context, runIndex int, announcer, subscriber string) error {
	return nil
}
func (noopPort) SendKeyloadForEveryone(ctx context.Context, runIndex int, owner string) error {
	return nil
}
func (noopPort) PublishSignedPacket(ctx context.Context, runIndex int, publisher string, payload []byte) error {
	return nil
}
func (noopPort) FetchNextMsgs(ctx context.Context, runIndex int, subscriber string) ([]transport.UnwrappedMessage, error) {
	return nil, nil
}

func makeParticipant(t *testing.T, reliability float64) identity.Participant {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := crypto.MultibaseEncode(kp.Public)
	require.NoError(t, err)
	return identity.Participant{
		DIDPublic: kp.Public, DIDPrivate: kp.Private, DIDMultibase: pub,
		TrueReliability: reliability, Organization: "acme",
	}
}

func TestTransactProducesVerifiableTranscript(t *testing.T) {
	orgKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	orgPubMB, err := crypto.MultibaseEncode(orgKP.Public)
	require.NoError(t, err)

	initiator := makeParticipant(t, 1.0)
	counterparty := makeParticipant(t, 1.0)
	witness1 := makeParticipant(t, 1.0)
	witness2 := makeParticipant(t, 1.0)
	participants := []identity.Participant{initiator, counterparty, witness1, witness2}

	certs := make(map[string]identity.OrganizationCertificate)
	for _, p := range participants {
		cert, err := identity.IssueCertificate(p.DIDMultibase, orgKP.Private, orgPubMB, 999999)
		require.NoError(t, err)
		certs[p.DIDMultibase] = cert
	}

	contract := message.Contract{
		Application:        message.ExchangeApplication,
		AnnouncementHandle: "handle-1",
		Offer:               "widget",
		Participants: []message.ParticipantRole{
			{DIDPubkey: initiator.DIDMultibase, Role: "tn_a"},
			{DIDPubkey: counterparty.DIDMultibase, Role: "tn_b"},
		},
		Time:    1000,
		Timeout: 2000,
	}

	sel := selection.Result{Initiator: 0, Counterparty: 1, Witnesses: []int{2, 3}}
	rng := rand.New(rand.NewSource(3))

	outcome, err := protocol.Transact(context.Background(), rng, noopPort{}, 0, contract, participants, certs, sel, nil)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Transcript)

	v, err := verifier.VerifyTranscript(outcome.Transcript, 1500)
	require.NoError(t, err)
	require.Len(t, v.ValidPKs, 4)
	require.True(t, outcome.ActualHonesty[initiator.DIDMultibase])
}

func TestTransactWithUnreliableWitnessAppliesLazyOutcome(t *testing.T) {
	orgKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	orgPubMB, err := crypto.MultibaseEncode(orgKP.Public)
	require.NoError(t, err)

	initiator := makeParticipant(t, 1.0)
	counterparty := makeParticipant(t, 1.0)
	// TrueReliability 0.0 means the witness is drawn dishonest on every run
	// (rng.Float64() < 0.0 is never true), so its statements come entirely
	// from the lazy strategy rather than from what actually happened.
	witness1 := makeParticipant(t, 0.0)
	participants := []identity.Participant{initiator, counterparty, witness1}

	certs := make(map[string]identity.OrganizationCertificate)
	for _, p := range participants {
		cert, err := identity.IssueCertificate(p.DIDMultibase, orgKP.Private, orgPubMB, 999999)
		require.NoError(t, err)
		certs[p.DIDMultibase] = cert
	}

	contract := message.Contract{Application: message.ExchangeApplication, AnnouncementHandle: "h", Time: 1000, Timeout: 2000}
	sel := selection.Result{Initiator: 0, Counterparty: 1, Witnesses: []int{2}}
	rng := rand.New(rand.NewSource(9))

	strategies := map[int]protocol.LazyWitnessStrategy{2: protocol.ConstantLazyStrategy{Outcome: false}}
	outcome, err := protocol.Transact(context.Background(), rng, noopPort{}, 0, contract, participants, certs, sel, strategies)
	require.NoError(t, err)

	for _, env := range outcome.Transcript {
		if env.Message.Kind == message.KindWitnessStatement && env.Message.WitnessStatement.AboutDIDPubkey == initiator.DIDMultibase {
			require.False(t, env.Message.WitnessStatement.Honest)
		}
	}
}
