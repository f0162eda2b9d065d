// Package openbadge verifies W3C Verifiable Credentials that carry Open
// Badges, in signed-token (VC-JWT) and embedded-proof form. The heavy
// lifting lives in credential/verification; this package offers the
// process-wide entry point.
package openbadge

import (
	"context"
	"sync"

	"github.com/badgeforge/go-openbadge-sdk/credential/verification"
)

// Aliases for the verification result model, so callers only importing this
// package can name everything a result contains.
type (
	VerificationResult = verification.VerificationResult
	VerificationCheck  = verification.VerificationCheck
	CheckSet           = verification.CheckSet
	ProofResult        = verification.ProofResult
	Status             = verification.Status
	ProofPolicy        = verification.ProofPolicy
	Option             = verification.Option
	StatusChecker      = verification.StatusChecker
)

const (
	StatusValid   = verification.StatusValid
	StatusInvalid = verification.StatusInvalid
	StatusError   = verification.StatusError

	PolicyAll = verification.PolicyAll
	PolicyAny = verification.PolicyAny
)

var (
	sharedVerifier *verification.Verifier
	sharedOnce     sync.Once
)

// Verify verifies a credential using a lazily-built shared verifier. Options
// apply to this call only; for per-instance defaults create a Verifier with
// NewVerifier.
func Verify(ctx context.Context, credential interface{}, opts ...Option) *VerificationResult {
	sharedOnce.Do(func() {
		sharedVerifier = verification.NewVerifier()
	})
	return sharedVerifier.Verify(ctx, credential, opts...)
}

// NewVerifier creates a verifier with its own option defaults.
func NewVerifier(opts ...Option) *verification.Verifier {
	return verification.NewVerifier(opts...)
}
