// Package crypto provides the Ed25519 keypair, detached signature, and
// multibase encoding primitives every signed message in the protocol builds
// on. Canonical serialization lives alongside it in canonical.go.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/multiformats/go-multibase"

	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// KeyPair is an Ed25519 identity: a stable keypair used either as a
// participant's DID key or its per-interaction channel key.
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateKeyPair creates a fresh Ed25519 keypair from crypto/rand.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, simerr.New(simerr.KindCrypto, "crypto.GenerateKeyPair", err)
	}
	return KeyPair{Public: pub, Private: priv}, nil
}

// Sign produces a 64-byte detached signature over message using priv.
func Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Verify checks a detached signature over message against pub.
func Verify(pub ed25519.PublicKey, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}

// MultibaseEncode encodes a raw public key as a base58btc multibase string
// (the "z..." form used throughout the wire protocol).
func MultibaseEncode(pub ed25519.PublicKey) (string, error) {
	s, err := multibase.Encode(multibase.Base58BTC, pub)
	if err != nil {
		return "", simerr.New(simerr.KindCrypto, "crypto.MultibaseEncode", err)
	}
	return s, nil
}

// MultibaseDecode reverses MultibaseEncode; it is the exact inverse for any
// string produced by it (property P2 in spec.md §8).
func MultibaseDecode(s string) (ed25519.PublicKey, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return nil, simerr.New(simerr.KindCrypto, "crypto.MultibaseDecode", err)
	}
	if len(data) != ed25519.PublicKeySize {
		return nil, simerr.New(simerr.KindCrypto, "crypto.MultibaseDecode",
			fmt.Errorf("decoded key has length %d, want %d", len(data), ed25519.PublicKeySize))
	}
	return ed25519.PublicKey(data), nil
}
