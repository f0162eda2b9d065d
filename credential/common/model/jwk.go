package model

// JWK represents a JSON Web Key structure.
type JWK struct {
	Kty string `json:"kty"`           // Key type: OKP, EC
	Crv string `json:"crv,omitempty"` // Curve: Ed25519, P-256, secp256k1
	X   string `json:"x,omitempty"`   // X coordinate (base64url)
	Y   string `json:"y,omitempty"`   // Y coordinate (base64url)
	Kid string `json:"kid,omitempty"` // Key identifier
	Alg string `json:"alg,omitempty"` // Intended algorithm
	Use string `json:"use,omitempty"` // Key use, typically "sig"
}

// JWKS represents a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}
