// Package didprovision mints the DID keypairs a simulation run needs: a
// small constructor that reads a mode and hands back ready-to-use key
// material, with a Testing mode that never touches the OS's randomness
// pool guarantees and a Production mode that does.
package didprovision

import (
	"crypto/ed25519"
	"fmt"
	"math/rand"

	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// Mode selects how CreateN sources its randomness.
type Mode int

const (
	// Testing draws keys from a caller-supplied deterministic rand.Rand,
	// via math/rand's io.Reader adapter, so a simulation run is
	// reproducible end to end from a single seed (spec.md §5).
	Testing Mode = iota
	// Production draws keys from crypto/rand.
	Production
)

// Identity is one minted DID keypair plus its cached multibase encoding.
type Identity struct {
	Public       ed25519.PublicKey
	Private      ed25519.PrivateKey
	PublicMultibase string
}

// CreateN mints n DID identities. In Testing mode, rng must be non-nil and
// every call with the same rng state produces the same keys.
func CreateN(n int, mode Mode, rng *rand.Rand) ([]Identity, error) {
	if n <= 0 {
		return nil, simerr.New(simerr.KindConfig, "didprovision.CreateN", fmt.Errorf("n must be positive, got %d", n))
	}

	out := make([]Identity, n)
	for i := 0; i < n; i++ {
		var kp crypto.KeyPair
		var err error
		switch mode {
		case Testing:
			if rng == nil {
				return nil, simerr.New(simerr.KindConfig, "didprovision.CreateN", fmt.Errorf("testing mode requires a seeded rand.Rand"))
			}
			pub, priv, genErr := ed25519.GenerateKey(rng)
			if genErr != nil {
				return nil, simerr.New(simerr.KindCrypto, "didprovision.CreateN", genErr)
			}
			kp = crypto.KeyPair{Public: pub, Private: priv}
		case Production:
			kp, err = crypto.GenerateKeyPair()
			if err != nil {
				return nil, err
			}
		default:
			return nil, simerr.New(simerr.KindConfig, "didprovision.CreateN", fmt.Errorf("unknown mode %d", mode))
		}

		mb, err := crypto.MultibaseEncode(kp.Public)
		if err != nil {
			return nil, err
		}
		out[i] = Identity{Public: kp.Public, Private: kp.Private, PublicMultibase: mb}
	}
	return out, nil
}
