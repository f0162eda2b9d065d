package jwt

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/jsonmap"
)

// CredentialClaim is the conventional JWT claim carrying the credential body.
const CredentialClaim = "vc"

// DefaultTyp is the typ header written on signed credentials.
const DefaultTyp = "vc+jwt"

// Signer mints compact JWTs for verifiable documents. The signing method is
// inferred from the key type: ed25519 keys sign EdDSA, P-256 keys sign ES256,
// secp256k1 keys sign ES256K.
type Signer struct {
	signingKey interface{}
	method     jwt.SigningMethod
	keyID      string
}

// NewSigner creates a signer for the given private key. keyID is written to
// the kid header, typically a DID verification method URL.
func NewSigner(signingKey interface{}, keyID string) (*Signer, error) {
	method, err := methodForKey(signingKey)
	if err != nil {
		return nil, err
	}
	return &Signer{
		signingKey: signingKey,
		method:     method,
		keyID:      keyID,
	}, nil
}

// Algorithm returns the JWT algorithm this signer produces.
func (s *Signer) Algorithm() string {
	return s.method.Alg()
}

// KeyID returns the kid header value this signer writes.
func (s *Signer) KeyID() string {
	return s.keyID
}

// Sign signs arbitrary claims into a compact JWT. Header entries override the
// defaults (typ, kid).
func (s *Signer) Sign(claims map[string]interface{}, header map[string]interface{}) (string, error) {
	token := jwt.NewWithClaims(s.method, jwt.MapClaims(claims))
	token.Header["typ"] = DefaultTyp
	if s.keyID != "" {
		token.Header["kid"] = s.keyID
	}
	for k, v := range header {
		token.Header[k] = v
	}

	signedString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedString, nil
}

// SignCredential wraps a credential under the vc claim and mirrors its
// identifiers into the standard claims.
func (s *Signer) SignCredential(credential jsonmap.JSONMap) (string, error) {
	if credential == nil {
		return "", fmt.Errorf("credential is nil")
	}

	claims := map[string]interface{}{
		CredentialClaim: credential,
		"iat":           time.Now().Unix(),
	}
	if issuer := credentialIssuer(credential); issuer != "" {
		claims["iss"] = issuer
	}
	if id, ok := credential.GetString("id"); ok && id != "" {
		claims["jti"] = id
	}

	return s.Sign(claims, nil)
}

// methodForKey maps a private key type onto its JWT signing method.
func methodForKey(key interface{}) (jwt.SigningMethod, error) {
	switch k := key.(type) {
	case ed25519.PrivateKey:
		return jwt.SigningMethodEdDSA, nil
	case *ecdsa.PrivateKey:
		if k.Curve.Params().Name == "P-256" {
			return jwt.SigningMethodES256, nil
		}
		return ES256K, nil
	default:
		return nil, fmt.Errorf("unsupported signing key type: %T", key)
	}
}

// credentialIssuer extracts the issuer identifier from a credential body.
func credentialIssuer(credential jsonmap.JSONMap) string {
	switch issuer := credential["issuer"].(type) {
	case string:
		return issuer
	case map[string]interface{}:
		if id, ok := issuer["id"].(string); ok {
			return id
		}
	}
	return ""
}
