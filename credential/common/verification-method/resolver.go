package verificationmethod

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// Resolver resolves a verification method identifier to a public key. The
// returned key is an ed25519.PublicKey or *ecdsa.PublicKey.
type Resolver interface {
	Resolve(ctx context.Context, id string) (interface{}, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, id string) (interface{}, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, id string) (interface{}, error) {
	return f(ctx, id)
}

// Registry dispatches resolution by DID method. Methods without a registered
// resolver are unsupported; there is no fallback probing.
type Registry struct {
	methods map[string]Resolver
}

// NewRegistry creates a registry with the built-in method resolvers.
func NewRegistry(web *WebResolver) *Registry {
	r := &Registry{methods: make(map[string]Resolver)}
	r.Register("key", ResolverFunc(ResolveKey))
	r.Register("web", web)
	return r
}

// Register adds or replaces the resolver for a DID method.
func (r *Registry) Register(method string, resolver Resolver) {
	r.methods[method] = resolver
}

// Resolve dispatches to the resolver registered for the identifier's method.
func (r *Registry) Resolve(ctx context.Context, id string) (interface{}, error) {
	method := Method(id)
	if method == "" {
		return nil, fmt.Errorf("unsupported identifier scheme: %q", id)
	}

	resolver, ok := r.methods[method]
	if !ok {
		supported := maps.Keys(r.methods)
		sort.Strings(supported)
		return nil, fmt.Errorf("unsupported DID method %q (supported: %s)", method, strings.Join(supported, ", "))
	}

	return resolver.Resolve(ctx, id)
}

// Chain tries a caller-supplied resolver first, then the built-in registry.
// It never returns an error and never lets a resolver panic escape; every
// failure resolves to nil.
type Chain struct {
	caller  Resolver
	builtin *Registry
}

// NewChain creates a resolution chain. caller may be nil.
func NewChain(caller Resolver, builtin *Registry) *Chain {
	return &Chain{caller: caller, builtin: builtin}
}

// Resolve returns the public key for id, or nil when no resolver can supply
// one.
func (c *Chain) Resolve(ctx context.Context, id string) interface{} {
	if c.caller != nil {
		if key := safeResolve(ctx, c.caller, id); key != nil {
			return key
		}
	}
	if c.builtin != nil {
		return safeResolve(ctx, c.builtin, id)
	}
	return nil
}

// safeResolve converts resolver errors and panics into a nil resolution.
func safeResolve(ctx context.Context, r Resolver, id string) (key interface{}) {
	defer func() {
		if recover() != nil {
			key = nil
		}
	}()

	key, err := r.Resolve(ctx, id)
	if err != nil {
		return nil
	}
	return key
}

// Method extracts the method name from a DID URL, or "" when the identifier
// is not a DID.
func Method(id string) string {
	rest, ok := strings.CutPrefix(id, "did:")
	if !ok {
		return ""
	}
	method, _, found := strings.Cut(rest, ":")
	if !found || method == "" {
		return ""
	}
	return method
}
