package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/config"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/model"
)

// Key set sources reported on issuer checks.
const (
	SourceEmbedded = "embedded"
	SourceRemote   = "remote"
)

// ErrNoKeys reports a DID document with neither embedded key material nor a
// key set endpoint.
var ErrNoKeys = errors.New("No JWKS URI or embedded keys")

// ForDocument resolves the key set a DID document publishes, preferring
// embedded publicKeyJwk material over a remote key set endpoint. It returns
// the key set and its source.
func ForDocument(ctx context.Context, client *http.Client, doc *model.DIDDocument) (*model.JWKS, string, error) {
	if doc == nil {
		return nil, "", fmt.Errorf("DID document is nil")
	}

	if keySet := EmbeddedKeys(doc); len(keySet.Keys) > 0 {
		return keySet, SourceEmbedded, nil
	}

	if endpoint, ok := ServiceEndpoint(doc); ok {
		keySet, err := Fetch(ctx, client, endpoint)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch JWKS from %q: %w", endpoint, err)
		}
		return keySet, SourceRemote, nil
	}

	return nil, "", ErrNoKeys
}

// EmbeddedKeys collects publicKeyJwk material from the document's
// verification methods.
func EmbeddedKeys(doc *model.DIDDocument) *model.JWKS {
	keySet := &model.JWKS{Keys: []model.JWK{}}
	for _, vm := range doc.VerificationMethod {
		if vm.PublicKeyJwk == nil {
			continue
		}
		jwk := *vm.PublicKeyJwk
		if jwk.Kid == "" {
			jwk.Kid = vm.ID
		}
		keySet.Keys = append(keySet.Keys, jwk)
	}
	return keySet
}

// ServiceEndpoint finds a key set endpoint among the document's services.
func ServiceEndpoint(doc *model.DIDDocument) (string, bool) {
	for _, svc := range doc.Service {
		if !isKeySetService(svc.Type) {
			continue
		}
		if endpoint := svc.Endpoint(); endpoint != "" {
			return endpoint, true
		}
	}
	return "", false
}

// isKeySetService reports whether a service type signals a key set endpoint.
func isKeySetService(serviceType string) bool {
	return strings.Contains(strings.ToLower(serviceType), "jwks") ||
		serviceType == "JsonWebKeySet2020"
}

// Fetch retrieves a key set from a remote endpoint. An endpoint returning
// zero keys is a failure.
func Fetch(ctx context.Context, client *http.Client, endpoint string) (*model.JWKS, error) {
	if client == nil {
		client = &http.Client{Timeout: config.HTTPTimeout()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch key set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key set endpoint returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read key set response: %w", err)
	}

	var keySet model.JWKS
	if err := json.Unmarshal(body, &keySet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key set JSON: %w", err)
	}

	if len(keySet.Keys) == 0 {
		return nil, fmt.Errorf("key set contains zero keys")
	}
	return &keySet, nil
}
