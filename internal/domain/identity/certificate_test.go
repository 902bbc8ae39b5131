package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
)

func newOrg(t *testing.T) identity.Organization {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pubMB, err := crypto.MultibaseEncode(kp.Public)
	require.NoError(t, err)
	return identity.Organization{
		Name:                       "acme",
		Public:                     kp.Public,
		Private:                    kp.Private,
		PublicMultibase:            pubMB,
		AveragePassesFloor:         0.5,
		CertificateLifetimeSeconds: 3600,
	}
}

func TestCertifyAndVerify(t *testing.T) {
	org := newOrg(t)
	cert, err := org.Certify("zMember", 1000)
	require.NoError(t, err)
	require.NoError(t, cert.Verify(1500))
}

func TestCertifyExpired(t *testing.T) {
	org := newOrg(t)
	cert, err := org.Certify("zMember", 1000)
	require.NoError(t, err)
	require.Error(t, cert.Verify(1000+3600+1))
}

func TestVerifyRejectsTamperedExpiry(t *testing.T) {
	org := newOrg(t)
	cert, err := org.Certify("zMember", 1000)
	require.NoError(t, err)

	cert.Expiry += 100000
	require.Error(t, cert.Verify(1500))
}

func TestHasMember(t *testing.T) {
	org := newOrg(t)
	org.Members = []string{"zA", "zB"}
	require.True(t, org.HasMember("zA"))
	require.False(t, org.HasMember("zC"))
}
