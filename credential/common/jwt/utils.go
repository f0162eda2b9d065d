package jwt

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/jsonmap"
)

// Header holds the protected header fields this pipeline inspects.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
	Kid string `json:"kid"`
}

// SplitToken splits a compact JWT into its three segments.
func SplitToken(tokenString string) ([]string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT format: expected 3 segments, got %d", len(parts))
	}
	return parts, nil
}

// DecodeHeader decodes the protected header of a compact JWT.
func DecodeHeader(tokenString string) (*Header, error) {
	parts, err := SplitToken(tokenString)
	if err != nil {
		return nil, err
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	return &header, nil
}

// DecodeClaims decodes the payload of a compact JWT without verifying it.
func DecodeClaims(tokenString string) (jsonmap.JSONMap, error) {
	parts, err := SplitToken(tokenString)
	if err != nil {
		return nil, err
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	claims, err := jsonmap.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return claims, nil
}
