package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/application/verifier"
	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/message"
)

type fixture struct {
	contract  message.Contract
	orgCert   identity.OrganizationCertificate
	aChannel  crypto.KeyPair
	bChannel  crypto.KeyPair
	witnesses []crypto.KeyPair
}

func buildFixture(t *testing.T, numWitnesses int) fixture {
	t.Helper()
	orgKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	orgPubMB, err := crypto.MultibaseEncode(orgKP.Public)
	require.NoError(t, err)

	cert, err := identity.IssueCertificate("zMember", orgKP.Private, orgPubMB, 99999)
	require.NoError(t, err)

	contract := message.Contract{
		Application:        message.ExchangeApplication,
		AnnouncementHandle: "handle",
		Offer:               "offer",
		Time:                 100,
		Timeout:              500,
	}

	aChannel, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	bChannel, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	witnesses := make([]crypto.KeyPair, numWitnesses)
	for i := range witnesses {
		witnesses[i], err = crypto.GenerateKeyPair()
		require.NoError(t, err)
	}

	return fixture{contract: contract, orgCert: cert, aChannel: aChannel, bChannel: bChannel, witnesses: witnesses}
}

func (f fixture) buildInteractionMsg(t *testing.T) message.InteractionMsg {
	t.Helper()

	var witnessSigs []message.WitnessSig
	for i, w := range f.witnesses {
		pub, err := crypto.MultibaseEncode(w.Public)
		require.NoError(t, err)
		preSig := message.WitnessPreSig{Contract: f.contract, SignerChannelPubkey: pub, OrgCert: f.orgCert, Timeout: f.contract.Timeout}
		sig, err := message.SignWitnessPreSig(preSig, w.Private, "zWitnessDid")
		require.NoError(t, err)
		witnessSigs = append(witnessSigs, sig)
		_ = i
	}

	witnessSigBytes := message.SortedWitnessSigBytes(witnessSigs)
	aPub, err := crypto.MultibaseEncode(f.aChannel.Public)
	require.NoError(t, err)
	bPub, err := crypto.MultibaseEncode(f.bChannel.Public)
	require.NoError(t, err)

	aPreSig := message.InteractionPreSig{Contract: f.contract, SignerChannelPubkey: aPub, WitnessSigBytes: witnessSigBytes, OrgCert: f.orgCert, Timeout: f.contract.Timeout}
	bPreSig := message.InteractionPreSig{Contract: f.contract, SignerChannelPubkey: bPub, WitnessSigBytes: witnessSigBytes, OrgCert: f.orgCert, Timeout: f.contract.Timeout}

	aSig, err := message.SignInteractionPreSig(aPreSig, f.aChannel.Private, "zADid")
	require.NoError(t, err)
	bSig, err := message.SignInteractionPreSig(bPreSig, f.bChannel.Private, "zBDid")
	require.NoError(t, err)

	return message.InteractionMsg{ParticipantSigs: [2]message.InteractionSig{aSig, bSig}, WitnessSigs: witnessSigs}
}

func TestVerifyTranscriptAcceptsWellFormedAnchor(t *testing.T) {
	f := buildFixture(t, 2)
	im := f.buildInteractionMsg(t)

	var tr message.Transcript
	aPub, _ := crypto.MultibaseEncode(f.aChannel.Public)
	tr.Append(aPub, message.NewInteractionMsg(im))

	v, err := verifier.VerifyTranscript(tr, 200)
	require.NoError(t, err)
	require.Len(t, v.ValidPKs, 4)
}

func TestVerifyTranscriptRejectsTamperedWitnessSigBytes(t *testing.T) {
	f := buildFixture(t, 2)
	im := f.buildInteractionMsg(t)
	im.ParticipantSigs[0].WitnessSigBytes = append(im.ParticipantSigs[0].WitnessSigBytes, 0xFF)

	var tr message.Transcript
	aPub, _ := crypto.MultibaseEncode(f.aChannel.Public)
	tr.Append(aPub, message.NewInteractionMsg(im))

	_, err := verifier.VerifyTranscript(tr, 200)
	require.Error(t, err)
}

func TestVerifyTranscriptRejectsUnvalidatedSigner(t *testing.T) {
	f := buildFixture(t, 1)
	im := f.buildInteractionMsg(t)

	var tr message.Transcript
	aPub, _ := crypto.MultibaseEncode(f.aChannel.Public)
	tr.Append(aPub, message.NewInteractionMsg(im))
	tr.Append("zUnknownPubkey", message.NewApplicationMsg(message.ApplicationMsg{InteractionHandle: "h", Body: "hi"}))

	_, err := verifier.VerifyTranscript(tr, 200)
	require.Error(t, err)
}

func TestVerifyTranscriptAcceptsWitnessStatementFromValidatedWitness(t *testing.T) {
	f := buildFixture(t, 1)
	im := f.buildInteractionMsg(t)

	var tr message.Transcript
	aPub, _ := crypto.MultibaseEncode(f.aChannel.Public)
	witnessPub, _ := crypto.MultibaseEncode(f.witnesses[0].Public)
	tr.Append(aPub, message.NewInteractionMsg(im))
	tr.Append(witnessPub, message.NewWitnessStatement(message.WitnessStatement{InteractionHandle: "h", AboutDIDPubkey: "zADid", Honest: true}))

	v, err := verifier.VerifyTranscript(tr, 200)
	require.NoError(t, err)
	require.Len(t, v.WitnessStatements[witnessPub], 1)
}
