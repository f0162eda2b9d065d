package jwt

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethodES256K implements ES256K (secp256k1) signing, which the JWT
// library does not ship with.
type SigningMethodES256K struct{}

// Alg returns the algorithm name
func (m *SigningMethodES256K) Alg() string {
	return "ES256K"
}

// Sign signs a string with a secp256k1 private key
func (m *SigningMethodES256K) Sign(signingString string, key interface{}) ([]byte, error) {
	privKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("invalid key type for ES256K: %T", key)
	}

	hash := sha256.Sum256([]byte(signingString))
	sig, err := crypto.Sign(hash[:], privKey)
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}

	return sig[:64], nil // Return R and S, excluding recovery ID
}

// Verify verifies a signature
func (m *SigningMethodES256K) Verify(signingString string, signature []byte, key interface{}) error {
	publicKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("invalid key type for ES256K: %T", key)
	}

	if len(signature) != 64 {
		return fmt.Errorf("invalid signature length")
	}

	hash := sha256.Sum256([]byte(signingString))
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])

	if !ecdsa.Verify(publicKey, hash[:], r, s) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// ES256K is the ES256K signing method instance
var ES256K = &SigningMethodES256K{}

func init() {
	jwt.RegisterSigningMethod(ES256K.Alg(), func() jwt.SigningMethod {
		return ES256K
	})
}
