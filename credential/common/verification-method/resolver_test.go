package verificationmethod

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/crypto"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/model"
)

// The ed25519 example identifier from the did:key method specification.
const exampleKeyDID = "did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK"

func TestMethod(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"did:key:z6Mkabc", "key"},
		{"did:web:example.com", "web"},
		{"did:web:example.com#key-1", "web"},
		{"https://example.com/issuers/1", ""},
		{"did:", ""},
		{"did:keyonly", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Method(tt.id), "Method(%q)", tt.id)
	}
}

func TestResolveKey(t *testing.T) {
	t.Run("Specification example", func(t *testing.T) {
		key, err := ResolveKey(context.Background(), exampleKeyDID)
		require.NoError(t, err)
		pub, ok := key.(ed25519.PublicKey)
		require.True(t, ok, "expected ed25519.PublicKey, got %T", key)
		assert.Len(t, pub, ed25519.PublicKeySize)
	})

	t.Run("Fragment is ignored", func(t *testing.T) {
		withFrag, err := ResolveKey(context.Background(), exampleKeyDID+"#"+strings.TrimPrefix(exampleKeyDID, "did:key:"))
		require.NoError(t, err)
		bare, err := ResolveKey(context.Background(), exampleKeyDID)
		require.NoError(t, err)
		assert.Equal(t, bare, withFrag)
	})

	t.Run("Round trip", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		encoded, err := crypto.MultibaseFromPublicKey(pub)
		require.NoError(t, err)

		key, err := ResolveKey(context.Background(), "did:key:"+encoded)
		require.NoError(t, err)
		assert.Equal(t, pub, key)
	})

	t.Run("Rejects other identifiers", func(t *testing.T) {
		for _, id := range []string{"did:web:example.com", "did:key:", "urn:x"} {
			_, err := ResolveKey(context.Background(), id)
			assert.Error(t, err, "id %q", id)
		}
	})
}

func TestKeyDocument(t *testing.T) {
	doc, err := KeyDocument(exampleKeyDID)
	require.NoError(t, err)

	assert.Equal(t, exampleKeyDID, doc.ID)
	require.Len(t, doc.VerificationMethod, 1)

	vm := doc.VerificationMethod[0]
	assert.Equal(t, exampleKeyDID+"#"+strings.TrimPrefix(exampleKeyDID, "did:key:"), vm.ID)
	assert.Equal(t, "JsonWebKey2020", vm.Type)
	assert.Equal(t, exampleKeyDID, vm.Controller)
	require.NotNil(t, vm.PublicKeyJwk)
	assert.Equal(t, "OKP", vm.PublicKeyJwk.Kty)
	assert.Equal(t, "Ed25519", vm.PublicKeyJwk.Crv)

	assert.Equal(t, []interface{}{vm.ID}, doc.AssertionMethod)
	assert.Equal(t, []interface{}{vm.ID}, doc.Authentication)
}

func TestWellKnownURL(t *testing.T) {
	tests := []struct {
		name     string
		did      string
		want     string
		errorMsg string
	}{
		{
			name: "Plain domain",
			did:  "did:web:issuer.example.edu",
			want: "https://issuer.example.edu/.well-known/did.json",
		},
		{
			name: "Domain with encoded port",
			did:  "did:web:localhost%3A8443",
			want: "https://localhost:8443/.well-known/did.json",
		},
		{
			name:     "Path form is not supported",
			did:      "did:web:example.com:issuers:42",
			errorMsg: "path-form",
		},
		{
			name:     "Not did:web",
			did:      "did:key:z6Mkabc",
			errorMsg: "invalid did:web identifier",
		},
		{
			name:     "Empty domain",
			did:      "did:web:",
			errorMsg: "invalid did:web identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WellKnownURL(tt.did)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(NewWebResolver(nil))

	t.Run("Dispatches did:key", func(t *testing.T) {
		key, err := registry.Resolve(context.Background(), exampleKeyDID)
		require.NoError(t, err)
		assert.NotNil(t, key)
	})

	t.Run("Unknown method lists supported ones", func(t *testing.T) {
		_, err := registry.Resolve(context.Background(), "did:ion:EiClkZMDxPKqC9c")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unsupported DID method "ion"`)
		assert.Contains(t, err.Error(), "key, web")
	})

	t.Run("Non-DID scheme", func(t *testing.T) {
		_, err := registry.Resolve(context.Background(), "urn:uuid:1234")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported identifier scheme")
	})

	t.Run("Registered methods take over", func(t *testing.T) {
		registry.Register("test", ResolverFunc(func(ctx context.Context, id string) (interface{}, error) {
			return "resolved-by-test", nil
		}))
		key, err := registry.Resolve(context.Background(), "did:test:anything")
		require.NoError(t, err)
		assert.Equal(t, "resolved-by-test", key)
	})
}

func TestChain(t *testing.T) {
	registry := NewRegistry(NewWebResolver(nil))

	t.Run("Caller resolver wins", func(t *testing.T) {
		caller := ResolverFunc(func(ctx context.Context, id string) (interface{}, error) {
			return "caller-key", nil
		})
		chain := NewChain(caller, registry)
		assert.Equal(t, "caller-key", chain.Resolve(context.Background(), exampleKeyDID))
	})

	t.Run("Falls through on caller miss", func(t *testing.T) {
		caller := ResolverFunc(func(ctx context.Context, id string) (interface{}, error) {
			return nil, nil
		})
		chain := NewChain(caller, registry)
		assert.NotNil(t, chain.Resolve(context.Background(), exampleKeyDID))
	})

	t.Run("Falls through on caller panic", func(t *testing.T) {
		caller := ResolverFunc(func(ctx context.Context, id string) (interface{}, error) {
			panic("resolver bug")
		})
		chain := NewChain(caller, registry)
		assert.NotNil(t, chain.Resolve(context.Background(), exampleKeyDID))
	})

	t.Run("Unresolvable yields nil without error", func(t *testing.T) {
		chain := NewChain(nil, registry)
		assert.Nil(t, chain.Resolve(context.Background(), "did:ion:unknown"))
	})

	t.Run("Nil chain members", func(t *testing.T) {
		chain := NewChain(nil, nil)
		assert.Nil(t, chain.Resolve(context.Background(), exampleKeyDID))
	})
}

func TestWebResolverResolve(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var doc model.DIDDocument
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/did.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(doc)
	})
	server := httptest.NewTLSServer(mux)
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "https://")
	did := "did:web:" + strings.ReplaceAll(host, ":", "%3A")
	doc = model.DIDDocument{
		ID: did,
		VerificationMethod: []model.VerificationMethodEntry{
			{
				ID:   did + "#key-1",
				Type: "JsonWebKey2020",
				PublicKeyJwk: &model.JWK{
					Kty: "OKP",
					Crv: "Ed25519",
					X:   base64.RawURLEncoding.EncodeToString(pub),
				},
			},
			{
				ID:           did + "#key-2",
				Type:         "JsonWebKey2020",
				PublicKeyJwk: &model.JWK{Kty: "OKP", Crv: "Ed25519", X: base64.RawURLEncoding.EncodeToString(make([]byte, 32))},
			},
		},
	}

	resolver := NewWebResolver(server.Client())

	t.Run("Fragment selects the verification method", func(t *testing.T) {
		key, err := resolver.Resolve(context.Background(), did+"#key-1")
		require.NoError(t, err)
		assert.Equal(t, ed25519.PublicKey(pub), key)
	})

	t.Run("No fragment selects the first entry", func(t *testing.T) {
		key, err := resolver.Resolve(context.Background(), did)
		require.NoError(t, err)
		assert.Equal(t, ed25519.PublicKey(pub), key)
	})

	t.Run("Unknown fragment", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), did+"#key-9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("Document id mismatch", func(t *testing.T) {
		saved := doc.ID
		doc.ID = "did:web:impostor.example"
		defer func() { doc.ID = saved }()

		_, err := resolver.Resolve(context.Background(), did)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})

	t.Run("Missing document", func(t *testing.T) {
		missingHost := strings.ReplaceAll(host, ":", "%3A")
		_, err := resolver.Resolve(context.Background(), "did:web:"+missingHost+"x")
		require.Error(t, err)
	})
}

func TestWebResolverNon200(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "https://")
	did := "did:web:" + strings.ReplaceAll(host, ":", "%3A")

	resolver := NewWebResolver(server.Client())
	_, err := resolver.ResolveDocument(context.Background(), did)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
	assert.Contains(t, err.Error(), fmt.Sprint(http.StatusNotFound))
}
