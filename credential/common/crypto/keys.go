package crypto

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-varint"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/model"
)

// Multicodec prefixes for public keys carried in multibase identifiers.
const (
	MulticodecEd25519Pub   = 0xed
	MulticodecSecp256k1Pub = 0xe7
	MulticodecP256Pub      = 0x1200
)

// Curve names used in JWK material.
const (
	CurveEd25519   = "Ed25519"
	CurveP256      = "P-256"
	CurveSecp256k1 = "secp256k1"
)

// PublicKeyFromJWK converts a JWK into a public key. The result is an
// ed25519.PublicKey for OKP keys or an *ecdsa.PublicKey for EC keys.
func PublicKeyFromJWK(jwk *model.JWK) (interface{}, error) {
	if jwk == nil {
		return nil, fmt.Errorf("jwk is nil")
	}

	switch jwk.Kty {
	case "OKP":
		if jwk.Crv != CurveEd25519 {
			return nil, fmt.Errorf("unsupported OKP curve: %s", jwk.Crv)
		}
		x, err := base64.RawURLEncoding.DecodeString(jwk.X)
		if err != nil {
			return nil, fmt.Errorf("failed to decode x coordinate: %w", err)
		}
		if len(x) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("invalid ed25519 key length: %d", len(x))
		}
		return ed25519.PublicKey(x), nil

	case "EC":
		x, err := base64.RawURLEncoding.DecodeString(jwk.X)
		if err != nil {
			return nil, fmt.Errorf("failed to decode x coordinate: %w", err)
		}
		y, err := base64.RawURLEncoding.DecodeString(jwk.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to decode y coordinate: %w", err)
		}

		var curve elliptic.Curve
		switch jwk.Crv {
		case CurveP256:
			curve = elliptic.P256()
		case CurveSecp256k1:
			curve = crypto.S256()
		default:
			return nil, fmt.Errorf("unsupported EC curve: %s", jwk.Crv)
		}

		pub := &ecdsa.PublicKey{
			Curve: curve,
			X:     new(big.Int).SetBytes(x),
			Y:     new(big.Int).SetBytes(y),
		}
		if !curve.IsOnCurve(pub.X, pub.Y) {
			return nil, fmt.Errorf("point is not on curve %s", jwk.Crv)
		}
		return pub, nil

	default:
		return nil, fmt.Errorf("unsupported key type: %s", jwk.Kty)
	}
}

// PublicKeyFromHex converts hex-encoded key material into a public key.
// Compressed (33 byte) and uncompressed (65 byte) secp256k1 keys and raw
// 32-byte ed25519 keys are supported.
func PublicKeyFromHex(publicKeyHex string) (interface{}, error) {
	publicKeyHex = strings.TrimPrefix(publicKeyHex, "0x")

	publicKeyBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex: %w", err)
	}

	switch {
	case len(publicKeyBytes) == 33 && (publicKeyBytes[0] == 0x02 || publicKeyBytes[0] == 0x03):
		return crypto.DecompressPubkey(publicKeyBytes)
	case len(publicKeyBytes) == 65 && publicKeyBytes[0] == 0x04:
		return crypto.UnmarshalPubkey(publicKeyBytes)
	case len(publicKeyBytes) == ed25519.PublicKeySize:
		return ed25519.PublicKey(publicKeyBytes), nil
	default:
		return nil, fmt.Errorf("unsupported public key format: %d bytes", len(publicKeyBytes))
	}
}

// PublicKeyFromMultibase converts a multibase-encoded, multicodec-prefixed
// key (the did:key payload format) into a public key.
func PublicKeyFromMultibase(encoded string) (interface{}, error) {
	if encoded == "" {
		return nil, fmt.Errorf("multibase value is empty")
	}
	if encoded[0] != 'z' {
		return nil, fmt.Errorf("unsupported multibase prefix: %q", encoded[0])
	}

	decoded, err := base58.Decode(encoded[1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 payload: %w", err)
	}

	code, n, err := varint.FromUvarint(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read multicodec prefix: %w", err)
	}
	keyBytes := decoded[n:]

	switch code {
	case MulticodecEd25519Pub:
		if len(keyBytes) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("invalid ed25519 key length: %d", len(keyBytes))
		}
		return ed25519.PublicKey(keyBytes), nil

	case MulticodecSecp256k1Pub:
		pub, err := btcec.ParsePubKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse secp256k1 key: %w", err)
		}
		return pub.ToECDSA(), nil

	case MulticodecP256Pub:
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), keyBytes)
		if x == nil {
			return nil, fmt.Errorf("failed to parse compressed P-256 key")
		}
		return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil

	default:
		return nil, fmt.Errorf("unsupported multicodec 0x%x", code)
	}
}

// PublicKeyFromEntry extracts a public key from a DID document verification
// method entry, trying JWK, hex, then multibase material.
func PublicKeyFromEntry(vm *model.VerificationMethodEntry) (interface{}, error) {
	if vm == nil {
		return nil, fmt.Errorf("verification method entry is nil")
	}

	switch {
	case vm.PublicKeyJwk != nil:
		return PublicKeyFromJWK(vm.PublicKeyJwk)
	case vm.PublicKeyHex != "":
		return PublicKeyFromHex(vm.PublicKeyHex)
	case vm.PublicKeyMultibase != "":
		return PublicKeyFromMultibase(vm.PublicKeyMultibase)
	default:
		return nil, fmt.Errorf("verification method %q carries no key material", vm.ID)
	}
}

// JWKFromPublicKey converts a public key into JWK form.
func JWKFromPublicKey(pub interface{}) (*model.JWK, error) {
	switch key := pub.(type) {
	case ed25519.PublicKey:
		return &model.JWK{
			Kty: "OKP",
			Crv: CurveEd25519,
			X:   base64.RawURLEncoding.EncodeToString(key),
		}, nil

	case *ecdsa.PublicKey:
		crv := CurveSecp256k1
		if key.Curve.Params().Name == CurveP256 {
			crv = CurveP256
		}
		byteLen := (key.Curve.Params().BitSize + 7) / 8
		return &model.JWK{
			Kty: "EC",
			Crv: crv,
			X:   base64.RawURLEncoding.EncodeToString(key.X.FillBytes(make([]byte, byteLen))),
			Y:   base64.RawURLEncoding.EncodeToString(key.Y.FillBytes(make([]byte, byteLen))),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported public key type: %T", pub)
	}
}

// MultibaseFromPublicKey encodes a public key as a multibase, multicodec-
// prefixed string (the did:key payload format). The inverse of
// PublicKeyFromMultibase.
func MultibaseFromPublicKey(pub interface{}) (string, error) {
	switch key := pub.(type) {
	case ed25519.PublicKey:
		payload := append(varint.ToUvarint(MulticodecEd25519Pub), key...)
		return "z" + base58.Encode(payload), nil

	case *ecdsa.PublicKey:
		code := uint64(MulticodecSecp256k1Pub)
		var compressed []byte
		if key.Curve.Params().Name == CurveP256 {
			code = MulticodecP256Pub
			compressed = elliptic.MarshalCompressed(elliptic.P256(), key.X, key.Y)
		} else {
			compressed = crypto.CompressPubkey(key)
		}
		payload := append(varint.ToUvarint(code), compressed...)
		return "z" + base58.Encode(payload), nil

	default:
		return "", fmt.Errorf("unsupported public key type: %T", pub)
	}
}
