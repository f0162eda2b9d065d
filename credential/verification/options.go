package verification

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/jsonmap"
	verificationmethod "github.com/badgeforge/go-openbadge-sdk/credential/common/verification-method"
)

// ProofPolicy selects how many proofs must pass for the proof category to
// pass as a whole.
type ProofPolicy string

const (
	// PolicyAll requires every proof to pass, and at least one.
	PolicyAll ProofPolicy = "all"
	// PolicyAny requires at least one proof to pass.
	PolicyAny ProofPolicy = "any"
)

// StatusChecker is the extension point for credential status verification
// (revocation lists, status registries). Checks returned here are reported
// under the status category. The statuslist package provides a Bitstring
// Status List implementation.
type StatusChecker interface {
	CheckStatus(ctx context.Context, credential jsonmap.JSONMap) ([]VerificationCheck, error)
}

type options struct {
	skipProofVerification    bool
	skipIssuerVerification   bool
	skipTemporalValidation   bool
	allowExpired             bool
	clockTolerance           time.Duration
	maxProofAge              time.Duration
	proofPolicy              ProofPolicy
	resolver                 verificationmethod.Resolver
	statusChecker            StatusChecker
	validateCredentialSchema bool
	validateJSONLD           bool
	httpClient               *http.Client
	logger                   *slog.Logger
}

func defaultOptions() *options {
	return &options{
		proofPolicy: PolicyAll,
		logger:      slog.Default(),
	}
}

func (o *options) clone() *options {
	c := *o
	return &c
}

// Option configures a Verifier or a single Verify call.
type Option func(*options)

// WithSkipProofVerification disables the proof category entirely.
func WithSkipProofVerification(skip bool) Option {
	return func(o *options) { o.skipProofVerification = skip }
}

// WithSkipIssuerVerification disables issuer DID resolution and key set
// retrieval.
func WithSkipIssuerVerification(skip bool) Option {
	return func(o *options) { o.skipIssuerVerification = skip }
}

// WithSkipTemporalValidation disables issuance and expiration checks.
func WithSkipTemporalValidation(skip bool) Option {
	return func(o *options) { o.skipTemporalValidation = skip }
}

// WithAllowExpired reports expired credentials as passing, flagged in the
// check details.
func WithAllowExpired(allow bool) Option {
	return func(o *options) { o.allowExpired = allow }
}

// WithClockTolerance sets the leeway applied to issuance and expiration
// comparisons.
func WithClockTolerance(d time.Duration) Option {
	return func(o *options) { o.clockTolerance = d }
}

// WithMaxProofAge rejects signed-token proofs issued longer than d ago.
// Zero disables the check.
func WithMaxProofAge(d time.Duration) Option {
	return func(o *options) { o.maxProofAge = d }
}

// WithProofPolicy sets the multi-proof pass policy.
func WithProofPolicy(policy ProofPolicy) Option {
	return func(o *options) { o.proofPolicy = policy }
}

// WithVerificationMethodResolver installs a caller resolver that is consulted
// before the built-in DID resolvers.
func WithVerificationMethodResolver(r verificationmethod.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithVerificationMethodResolverFunc is WithVerificationMethodResolver for a
// bare function.
func WithVerificationMethodResolverFunc(f func(ctx context.Context, id string) (interface{}, error)) Option {
	return func(o *options) { o.resolver = verificationmethod.ResolverFunc(f) }
}

// WithStatusChecker installs a credential status checker.
func WithStatusChecker(c StatusChecker) Option {
	return func(o *options) { o.statusChecker = c }
}

// WithCredentialSchemaValidation enables JSON Schema validation against the
// credential's credentialSchema references.
func WithCredentialSchemaValidation(enable bool) Option {
	return func(o *options) { o.validateCredentialSchema = enable }
}

// WithJSONLDValidation enables JSON-LD canonicalization of the credential
// body as a well-formedness check.
func WithJSONLDValidation(enable bool) Option {
	return func(o *options) { o.validateJSONLD = enable }
}

// WithHTTPClient overrides the HTTP client used for DID document and key set
// fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
