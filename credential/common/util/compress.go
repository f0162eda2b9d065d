package util

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
)

// Compress gzips data.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress gunzips data.
func Decompress(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	return io.ReadAll(gz)
}

// CompressToBase64URL gzips data and encodes it as unpadded base64url, the
// encoding status list bitstrings travel in.
func CompressToBase64URL(data []byte) (string, error) {
	compressed, err := Compress(data)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(compressed), nil
}

// DecompressFromBase64URL decodes unpadded base64url data and gunzips it.
func DecompressFromBase64URL(data string) ([]byte, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	return Decompress(compressed)
}
