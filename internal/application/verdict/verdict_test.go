package verdict_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/application/verdict"
)

func TestGenerateParticipantReliability(t *testing.T) {
	statements := []verdict.Statement{
		{WitnessDID: "zW1", AboutDID: "zA", Honest: true},
		{WitnessDID: "zW2", AboutDID: "zA", Honest: true},
		{WitnessDID: "zW1", AboutDID: "zB", Honest: false},
		{WitnessDID: "zW2", AboutDID: "zB", Honest: true},
	}

	v := verdict.Generate(statements, []string{"zA", "zB"})
	require.Equal(t, 1.0, v.ParticipantReliability["zA"])
	require.Equal(t, 0.5, v.ParticipantReliability["zB"])
}

func TestGenerateWitnessReliabilityTracksMajorityAgreement(t *testing.T) {
	statements := []verdict.Statement{
		{WitnessDID: "zW1", AboutDID: "zA", Honest: true},
		{WitnessDID: "zW2", AboutDID: "zA", Honest: true},
		{WitnessDID: "zW3", AboutDID: "zA", Honest: false},
	}

	v := verdict.Generate(statements, []string{"zA"})
	require.Equal(t, 1.0, v.WitnessReliability["zW1"])
	require.Equal(t, 1.0, v.WitnessReliability["zW2"])
	require.Equal(t, 0.0, v.WitnessReliability["zW3"])
}

func TestGenerateSkipsParticipantsWithNoStatements(t *testing.T) {
	v := verdict.Generate(nil, []string{"zA"})
	_, ok := v.ParticipantReliability["zA"]
	require.False(t, ok)
}
