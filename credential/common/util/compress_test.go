package util

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "simple string",
			input: []byte("Hello, World!"),
		},
		{
			name:  "empty input",
			input: []byte{},
		},
		{
			name:  "binary data",
			input: []byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe},
		},
		{
			name:  "repetitive data",
			input: bytes.Repeat([]byte("status list bitstring "), 500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := Compress(tt.input)
			if err != nil {
				t.Fatalf("Compress() failed: %v", err)
			}

			decompressed, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress() failed: %v", err)
			}

			if !bytes.Equal(tt.input, decompressed) {
				t.Errorf("round trip changed data: in %v, out %v", tt.input, decompressed)
			}
		})
	}
}

func TestDecompressRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "empty data",
			input: []byte{},
		},
		{
			name:  "not gzip",
			input: []byte("plain text"),
		},
		{
			name:  "truncated gzip header",
			input: []byte{0x1f, 0x8b, 0x08, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decompress(tt.input); err == nil {
				t.Errorf("Decompress() accepted invalid input")
			}
		})
	}
}

func TestBase64URLRoundTrip(t *testing.T) {
	input := bytes.Repeat([]byte{0b10100000}, 2048)

	encoded, err := CompressToBase64URL(input)
	if err != nil {
		t.Fatalf("CompressToBase64URL() failed: %v", err)
	}
	if _, err := base64.RawURLEncoding.DecodeString(encoded); err != nil {
		t.Fatalf("CompressToBase64URL() produced invalid base64url: %v", err)
	}

	decoded, err := DecompressFromBase64URL(encoded)
	if err != nil {
		t.Fatalf("DecompressFromBase64URL() failed: %v", err)
	}
	if !bytes.Equal(input, decoded) {
		t.Errorf("round trip changed data")
	}
}

func TestDecompressFromBase64URLRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "empty string",
			input: "",
		},
		{
			name:  "invalid base64url",
			input: "not-base64!@#",
		},
		{
			name:  "valid base64url but not gzip",
			input: base64.RawURLEncoding.EncodeToString([]byte("not gzip")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecompressFromBase64URL(tt.input); err == nil {
				t.Errorf("DecompressFromBase64URL() accepted invalid input")
			}
		})
	}
}
