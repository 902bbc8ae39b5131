package identity

import "crypto/ed25519"

// Organization issues certificates to its members and gates interactions
// with an average-reputation floor: an interaction is only admitted if the
// mean organization-scoped score of its selected participants and witnesses
// is at least AveragePassesFloor (spec.md §4.2, §4.4).
type Organization struct {
	Name string

	Public  ed25519.PublicKey
	Private ed25519.PrivateKey

	// PublicMultibase is the cached multibase encoding of Public, embedded
	// in every OrganizationCertificate this org issues.
	PublicMultibase string

	// AveragePassesFloor is the minimum mean organization-scoped reputation
	// score, taken over an interaction's selected participants and
	// witnesses together, required to admit that interaction.
	AveragePassesFloor float64

	// CertificateLifetimeSeconds is added to the interaction's start time to
	// compute each issued certificate's expiry.
	CertificateLifetimeSeconds int64

	// Members lists the DID multibase pubkeys of participants currently
	// certified by this organization.
	Members []string
}

// Certify issues a fresh OrganizationCertificate for memberPubkey, valid
// from issuedAtUnix for CertificateLifetimeSeconds.
func (o Organization) Certify(memberPubkey string, issuedAtUnix int64) (OrganizationCertificate, error) {
	return IssueCertificate(memberPubkey, o.Private, o.PublicMultibase, issuedAtUnix+o.CertificateLifetimeSeconds)
}

// HasMember reports whether pubkey is a current member of o.
func (o Organization) HasMember(pubkey string) bool {
	for _, m := range o.Members {
		if m == pubkey {
			return true
		}
	}
	return false
}
