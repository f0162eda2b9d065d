package verificationmethod

import (
	"context"
	"fmt"
	"strings"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/crypto"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/model"
)

// ResolveKey derives a public key directly from a did:key identifier. No
// network access.
func ResolveKey(_ context.Context, id string) (interface{}, error) {
	encoded, err := keyMultibase(id)
	if err != nil {
		return nil, err
	}
	return crypto.PublicKeyFromMultibase(encoded)
}

// KeyDocument builds the DID document a did:key identifier describes. The
// document is derived locally with the key embedded as a JWK.
func KeyDocument(did string) (*model.DIDDocument, error) {
	encoded, err := keyMultibase(did)
	if err != nil {
		return nil, err
	}

	pub, err := crypto.PublicKeyFromMultibase(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key from %q: %w", did, err)
	}

	jwk, err := crypto.JWKFromPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to build JWK for %q: %w", did, err)
	}

	base, _, _ := strings.Cut(did, "#")
	vmID := base + "#" + encoded
	return &model.DIDDocument{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      base,
		VerificationMethod: []model.VerificationMethodEntry{{
			ID:           vmID,
			Type:         "JsonWebKey2020",
			Controller:   base,
			PublicKeyJwk: jwk,
		}},
		Authentication:  []interface{}{vmID},
		AssertionMethod: []interface{}{vmID},
	}, nil
}

// keyMultibase extracts the multibase payload from a did:key identifier.
func keyMultibase(id string) (string, error) {
	base, _, _ := strings.Cut(id, "#")
	encoded, ok := strings.CutPrefix(base, "did:key:")
	if !ok || encoded == "" {
		return "", fmt.Errorf("invalid did:key identifier: %q", id)
	}
	return encoded, nil
}
