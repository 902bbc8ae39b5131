package message_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/message"
)

func sampleContract() message.Contract {
	return message.Contract{
		Application:        message.ExchangeApplication,
		AnnouncementHandle: "handle-1",
		Offer:               "widget for coin",
		Participants: []message.ParticipantRole{
			{DIDPubkey: "zA", Role: "tn_a"},
			{DIDPubkey: "zB", Role: "tn_b"},
		},
		CompensationSchedule: []message.Payment{{Recipient: "witnesses", Amount: 1}},
		Time:                 1000,
		Timeout:              1300,
	}
}

func sampleCert(t *testing.T) identity.OrganizationCertificate {
	t.Helper()
	orgKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	orgPubMB, err := crypto.MultibaseEncode(orgKP.Public)
	require.NoError(t, err)
	cert, err := identity.IssueCertificate("zMember", orgKP.Private, orgPubMB, 9999)
	require.NoError(t, err)
	return cert
}

func TestWitnessSigRoundTrip(t *testing.T) {
	cert := sampleCert(t)
	channelKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	preSig := message.WitnessPreSig{
		Contract:            sampleContract(),
		SignerChannelPubkey: "zChannel",
		OrgCert:             cert,
		Timeout:             1300,
	}
	sig, err := message.SignWitnessPreSig(preSig, channelKP.Private, "zWitnessDid")
	require.NoError(t, err)
	require.True(t, sig.Verify(channelKP.Public))
}

func TestWitnessSigRejectsWrongKey(t *testing.T) {
	cert := sampleCert(t)
	channelKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	other, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	preSig := message.WitnessPreSig{Contract: sampleContract(), SignerChannelPubkey: "zChannel", OrgCert: cert, Timeout: 1300}
	sig, err := message.SignWitnessPreSig(preSig, channelKP.Private, "zWitnessDid")
	require.NoError(t, err)
	require.False(t, sig.Verify(other.Public))
}

func TestSortedWitnessSigBytesIsOrderIndependent(t *testing.T) {
	cert := sampleCert(t)
	var sigs []message.WitnessSig
	for i := 0; i < 3; i++ {
		kp, err := crypto.GenerateKeyPair()
		require.NoError(t, err)
		preSig := message.WitnessPreSig{Contract: sampleContract(), SignerChannelPubkey: "zChannel", OrgCert: cert, Timeout: 1300}
		sig, err := message.SignWitnessPreSig(preSig, kp.Private, "zWitnessDid")
		require.NoError(t, err)
		sigs = append(sigs, sig)
	}

	forward := message.SortedWitnessSigBytes(sigs)
	reversed := []message.WitnessSig{sigs[2], sigs[1], sigs[0]}
	require.Equal(t, forward, message.SortedWitnessSigBytes(reversed))
}

func TestInteractionSigRoundTrip(t *testing.T) {
	cert := sampleCert(t)
	channelKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	preSig := message.InteractionPreSig{
		Contract:            sampleContract(),
		SignerChannelPubkey: "zChannel",
		Witnesses:           []string{"zW1", "zW2"},
		WitnessSigBytes:     []byte{1, 2, 3},
		OrgCert:             cert,
		Timeout:             1300,
	}
	sig, err := message.SignInteractionPreSig(preSig, channelKP.Private, "zParticipantDid")
	require.NoError(t, err)
	require.True(t, sig.Verify(channelKP.Public))
}

func TestTranscriptAppendPreservesOrder(t *testing.T) {
	var tr message.Transcript
	tr.Append("zA", message.NewApplicationMsg(message.ApplicationMsg{InteractionHandle: "h", Body: "first"}))
	tr.Append("zB", message.NewApplicationMsg(message.ApplicationMsg{InteractionHandle: "h", Body: "second"}))

	require.Len(t, tr, 2)
	require.Equal(t, "first", tr[0].Message.Application.Body)
	require.Equal(t, "second", tr[1].Message.Application.Body)
}

func TestContractEqual(t *testing.T) {
	a := sampleContract()
	b := sampleContract()
	require.True(t, a.Equal(b))

	b.Offer = "different"
	require.False(t, a.Equal(b))
}
