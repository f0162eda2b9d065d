package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSignatureInvalid reports a signature that does not verify against the
// supplied key.
var ErrSignatureInvalid = errors.New("signature verification failed")

// supportedAlgorithms lists the JWT algorithms this package verifies.
var supportedAlgorithms = []string{"EdDSA", "ES256", "ES256K"}

// VerifySignature checks a compact JWT's signature against an explicit public
// key. Claim validation (exp, nbf) is intentionally not performed here; the
// temporal validator owns the credential's validity window.
func VerifySignature(tokenString string, publicKey interface{}) error {
	if publicKey == nil {
		return fmt.Errorf("public key is nil")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(supportedAlgorithms),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
		}
		return fmt.Errorf("failed to verify token: %w", err)
	}
	return nil
}
