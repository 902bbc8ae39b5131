// Package orgkeystore loads an organization's stable Ed25519 signing key
// from the environment, so a production deployment's org identity survives
// across process restarts instead of being redrawn from the scenario's rng
// every run (without a configured key, cmd/witnessrep draws the org key
// from the scenario's seeded rng, for reproducible simulation runs).
package orgkeystore

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"os"
	"strings"

	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// Store holds one Ed25519 seed per organization name.
type Store struct {
	seeds      map[string][]byte
	defaultOrg string
}

// NewFromEnv builds a Store from WITNESSREP_ORG_KEYS ("org:hexseed,org2:hexseed")
// and WITNESSREP_ORG_DEFAULT. Each seed must be the 32-byte Ed25519 seed in hex.
func NewFromEnv() (*Store, error) {
	seeds := make(map[string][]byte)
	raw := os.Getenv("WITNESSREP_ORG_KEYS")
	if raw != "" {
		for _, pair := range strings.Split(raw, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) != 2 {
				return nil, simerr.New(simerr.KindConfig, "orgkeystore.NewFromEnv", errors.New("invalid WITNESSREP_ORG_KEYS format, want org:hexseed"))
			}
			seed, err := hex.DecodeString(parts[1])
			if err != nil {
				return nil, simerr.New(simerr.KindConfig, "orgkeystore.NewFromEnv", err)
			}
			if len(seed) != ed25519.SeedSize {
				return nil, simerr.New(simerr.KindConfig, "orgkeystore.NewFromEnv", errors.New("org seed must be 32 bytes"))
			}
			seeds[parts[0]] = seed
		}
	}
	return &Store{seeds: seeds, defaultOrg: os.Getenv("WITNESSREP_ORG_DEFAULT")}, nil
}

// GetOrgKey returns the stable Ed25519 keypair configured for orgName.
func (s *Store) GetOrgKey(orgName string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	seed, ok := s.seeds[orgName]
	if !ok {
		return nil, nil, simerr.New(simerr.KindConfig, "orgkeystore.GetOrgKey", errors.New("no signing key configured for organization "+orgName))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(ed25519.PublicKey), priv, nil
}

// HasDefault reports whether WITNESSREP_ORG_DEFAULT was set, letting the
// caller prefer a keystore-backed identity over a randomly drawn one.
func (s *Store) HasDefault() bool {
	return s.defaultOrg != ""
}

// DefaultOrgName returns the configured default organization name.
func (s *Store) DefaultOrgName() string {
	return s.defaultOrg
}
