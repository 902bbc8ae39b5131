package crypto

import (
	"encoding/json"

	"github.com/execution-hub/witnessrep/internal/domain/simerr"
)

// CanonicalJSON serializes v the way every pre-signature struct in this
// protocol is serialized before signing or verifying: Go's encoding/json
// already walks exported struct fields in declaration order rather than
// alphabetically, so as long as every signed type is a struct (never a map)
// the wire form is deterministic across processes. This is the project's
// whole canonicalization contract — see SPEC_FULL.md §3 and §9.
func CanonicalJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, simerr.New(simerr.KindCrypto, "crypto.CanonicalJSON", err)
	}
	return b, nil
}
