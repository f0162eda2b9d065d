package verificationmethod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/config"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/crypto"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/model"
)

// WebResolver resolves did:web identifiers by fetching the well-known DID
// document over HTTPS.
type WebResolver struct {
	client *http.Client
}

// NewWebResolver creates a did:web resolver using the given HTTP client.
func NewWebResolver(client *http.Client) *WebResolver {
	if client == nil {
		client = &http.Client{Timeout: config.HTTPTimeout()}
	}
	return &WebResolver{client: client}
}

// Resolve fetches the DID document and extracts the public key the
// identifier's fragment selects, or the first verification method when there
// is no fragment.
func (r *WebResolver) Resolve(ctx context.Context, id string) (interface{}, error) {
	doc, err := r.ResolveDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	entry, err := findEntry(doc, id)
	if err != nil {
		return nil, err
	}
	return crypto.PublicKeyFromEntry(entry)
}

// ResolveDocument fetches and parses the well-known DID document for a
// did:web identifier. The document's id must equal the requested DID.
func (r *WebResolver) ResolveDocument(ctx context.Context, id string) (*model.DIDDocument, error) {
	did, _, _ := strings.Cut(id, "#")

	docURL, err := WellKnownURL(did)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", docURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch DID document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DID document endpoint returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read DID document response: %w", err)
	}

	var doc model.DIDDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DID document JSON: %w", err)
	}

	if doc.ID != did {
		return nil, fmt.Errorf("DID document id %q does not match requested DID %q", doc.ID, did)
	}
	return &doc, nil
}

// WellKnownURL maps a did:web identifier onto its well-known document URL.
// Only the domain form is supported; a port rides in as a percent-encoded
// colon.
func WellKnownURL(did string) (string, error) {
	rest, ok := strings.CutPrefix(did, "did:web:")
	if !ok || rest == "" {
		return "", fmt.Errorf("invalid did:web identifier: %q", did)
	}
	if strings.Contains(rest, ":") {
		return "", fmt.Errorf("path-form did:web identifiers are not supported: %q", did)
	}

	domain, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("invalid did:web domain %q: %w", rest, err)
	}
	return "https://" + domain + "/.well-known/did.json", nil
}

// findEntry selects the verification method the identifier's fragment names,
// or the first entry when there is no fragment.
func findEntry(doc *model.DIDDocument, id string) (*model.VerificationMethodEntry, error) {
	if len(doc.VerificationMethod) == 0 {
		return nil, fmt.Errorf("DID document %q has no verification methods", doc.ID)
	}

	_, frag, hasFrag := strings.Cut(id, "#")
	if !hasFrag {
		return &doc.VerificationMethod[0], nil
	}

	for i := range doc.VerificationMethod {
		vm := &doc.VerificationMethod[i]
		if vm.ID == id || vm.ID == "#"+frag {
			return vm, nil
		}
	}
	return nil, fmt.Errorf("verification method %q not found in DID document", id)
}
