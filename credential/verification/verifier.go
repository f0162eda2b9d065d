// Package verification implements the Open Badges credential verification
// pipeline: proof verification for signed-token credentials, issuer DID
// resolution and key set retrieval, temporal validation, and schema checks,
// aggregated into a single itemized result.
package verification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/config"
	verificationmethod "github.com/badgeforge/go-openbadge-sdk/credential/common/verification-method"
)

// Verifier runs the credential verification pipeline. Options passed to
// NewVerifier become defaults; options passed to Verify override them for
// that call. A Verifier is safe for concurrent use.
type Verifier struct {
	opts       *options
	httpClient *http.Client
	web        *verificationmethod.WebResolver
	registry   *verificationmethod.Registry
	logger     *slog.Logger

	// now is replaced in tests.
	now func() time.Time
}

// NewVerifier creates a Verifier.
func NewVerifier(opts ...Option) *Verifier {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := options.httpClient
	if client == nil {
		client = &http.Client{
			Timeout:   config.HTTPTimeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	web := verificationmethod.NewWebResolver(client)
	return &Verifier{
		opts:       options,
		httpClient: client,
		web:        web,
		registry:   verificationmethod.NewRegistry(web),
		logger:     options.logger,
		now:        time.Now,
	}
}

// Registry exposes the built-in DID method registry so callers can register
// additional methods.
func (v *Verifier) Registry() *verificationmethod.Registry {
	return v.registry
}

// Verify verifies a credential and always returns a result. Malformed input
// is reported with status "error"; failed checks with status "invalid". It
// never panics and never returns an error value.
func (v *Verifier) Verify(ctx context.Context, credential interface{}, opts ...Option) (result *VerificationResult) {
	start := v.now()
	options := v.opts.clone()
	for _, opt := range opts {
		opt(options)
	}

	defer func() {
		if r := recover(); r != nil {
			options.logger.Error("verification panicked", "panic", r)
			result = &VerificationResult{
				Status:     StatusError,
				Error:      fmt.Sprintf("internal error: %v", r),
				Checks:     newCheckSet(),
				VerifiedAt: start.UTC(),
			}
			result.Metadata.DurationMs = v.now().Sub(start).Milliseconds()
		}
	}()

	result = &VerificationResult{
		Status:     StatusInvalid,
		Checks:     newCheckSet(),
		VerifiedAt: start.UTC(),
	}

	parsed, err := parseInput(credential)
	if err != nil {
		options.logger.Debug("credential rejected", "error", err)
		result.Status = StatusError
		result.Error = err.Error()
		result.Metadata.DurationMs = v.now().Sub(start).Milliseconds()
		return result
	}
	result.CredentialID = parsed.id
	result.Issuer = parsed.issuer

	result.Checks.Schema = append(result.Checks.Schema, v.validateSchema(parsed, options)...)

	if !options.skipProofVerification {
		proofs, missing := normalizeProofs(parsed)
		if missing != nil {
			result.Checks.Proof = append(result.Checks.Proof, *missing)
		} else {
			checks := v.verifyProofs(ctx, parsed, proofs, options)
			result.Checks.Proof = append(result.Checks.Proof, checks...)
			result.ProofResults = buildProofResults(proofs, checks)
			result.TotalProofs = len(proofs)
			for _, check := range checks {
				if check.Passed {
					result.PassedProofs++
				}
			}
			result.ProofType = result.ProofResults[0].ProofType
			result.VerificationMethod = result.ProofResults[0].VerificationMethod
		}
		result.Checks.Proof = append(result.Checks.Proof,
			policyCheck(options.proofPolicy, result.TotalProofs, result.PassedProofs))
	}

	if !options.skipIssuerVerification {
		result.Checks.Issuer = append(result.Checks.Issuer, v.VerifyIssuer(ctx, parsed.issuer)...)
	}

	if !options.skipTemporalValidation {
		result.Checks.Temporal = append(result.Checks.Temporal, v.validateTemporal(parsed, options, v.now())...)
	}

	if options.statusChecker != nil {
		result.Checks.Status = append(result.Checks.Status, v.runStatusChecker(ctx, parsed, options)...)
	}

	result.Status = aggregateStatus(&result.Checks)
	result.IsValid = result.Status == StatusValid
	result.Metadata.DurationMs = v.now().Sub(start).Milliseconds()

	options.logger.Debug("credential verified",
		"status", result.Status,
		"issuer", result.Issuer,
		"proofs", result.TotalProofs,
		"durationMs", result.Metadata.DurationMs)
	return result
}

// runStatusChecker invokes the configured status checker, containing its
// errors and panics within the status category.
func (v *Verifier) runStatusChecker(ctx context.Context, parsed *parsedCredential, opts *options) (checks []VerificationCheck) {
	defer func() {
		if r := recover(); r != nil {
			checks = []VerificationCheck{failedCheck(CheckStatusCheck,
				fmt.Sprintf("status checker panicked: %v", r), nil)}
		}
	}()

	checks, err := opts.statusChecker.CheckStatus(ctx, parsed.doc)
	if err != nil {
		return []VerificationCheck{failedCheck(CheckStatusCheck,
			fmt.Sprintf("status check failed: %v", err), nil)}
	}
	return checks
}

// aggregateStatus folds the check set into a single status. The proof
// category is governed by its policy summary check alone: individual proof
// failures do not fail the credential when the policy is still satisfied.
func aggregateStatus(checks *CheckSet) Status {
	for _, check := range checks.Proof {
		if check.Check == CheckProofPolicy && !check.Passed {
			return StatusInvalid
		}
	}
	for _, category := range [][]VerificationCheck{checks.Issuer, checks.Temporal, checks.Schema, checks.Status} {
		for _, check := range category {
			if !check.Passed {
				return StatusInvalid
			}
		}
	}
	return StatusValid
}
