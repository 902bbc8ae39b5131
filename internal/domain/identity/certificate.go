// Package identity holds the participant and organization actors and the
// organization certificate that binds a member to an organization until an
// expiry.
package identity

import (
	"crypto/ed25519"
	"fmt"

	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// CertificatePreSig is the signed pre-image of an OrganizationCertificate:
// the member pubkey and the expiry, in that order.
type CertificatePreSig struct {
	MemberPubkey string `json:"memberPubkey"`
	Expiry       int64  `json:"expiry"`
}

// OrganizationCertificate is the organization's signed statement admitting a
// member until Expiry.
type OrganizationCertificate struct {
	MemberPubkey string `json:"memberPubkey"`
	Expiry       int64  `json:"expiry"`
	OrgPubkey    string `json:"orgPubkey"`
	Signature    []byte `json:"signature"`
}

// IssueCertificate signs a CertificatePreSig(memberPubkey, expiry) with the
// organization's private key and returns the fully-populated certificate.
func IssueCertificate(memberPubkey string, orgPriv ed25519.PrivateKey, orgPubkeyMultibase string, expiryUnix int64) (OrganizationCertificate, error) {
	preSig := CertificatePreSig{MemberPubkey: memberPubkey, Expiry: expiryUnix}
	preImage, err := crypto.CanonicalJSON(preSig)
	if err != nil {
		return OrganizationCertificate{}, simerr.New(simerr.KindCrypto, "identity.IssueCertificate", err)
	}
	sig := crypto.Sign(orgPriv, preImage)
	return OrganizationCertificate{
		MemberPubkey: memberPubkey,
		Expiry:       expiryUnix,
		OrgPubkey:    orgPubkeyMultibase,
		Signature:    sig,
	}, nil
}

// Verify checks the certificate's signature against its own OrgPubkey field,
// and that it is not expired as of the unix timestamp referenceTime (the
// timestamp of the interaction message that carries it, per spec.md §3).
func (c OrganizationCertificate) Verify(referenceTime int64) error {
	orgPub, err := crypto.MultibaseDecode(c.OrgPubkey)
	if err != nil {
		return simerr.New(simerr.KindCrypto, "OrganizationCertificate.Verify", err)
	}
	preImage, err := crypto.CanonicalJSON(CertificatePreSig{MemberPubkey: c.MemberPubkey, Expiry: c.Expiry})
	if err != nil {
		return simerr.New(simerr.KindCrypto, "OrganizationCertificate.Verify", err)
	}
	if !crypto.Verify(orgPub, preImage, c.Signature) {
		return simerr.New(simerr.KindCrypto, "OrganizationCertificate.Verify", fmt.Errorf("signature invalid"))
	}
	if c.Expiry <= referenceTime {
		return simerr.New(simerr.KindCrypto, "OrganizationCertificate.Verify", fmt.Errorf("certificate expired at %d, reference time %d", c.Expiry, referenceTime))
	}
	return nil
}
