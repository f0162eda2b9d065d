package verification

import (
	"time"
)

// Status is the aggregate outcome of a verification run.
type Status string

const (
	// StatusValid means every required check category passed.
	StatusValid Status = "valid"
	// StatusInvalid means the credential is well-formed but at least one
	// check failed.
	StatusInvalid Status = "invalid"
	// StatusError means the input was malformed and verification stopped
	// before running checks.
	StatusError Status = "error"
)

// Check names, namespaced by category.
const (
	CheckProofJWTAlgorithm          = "proof.jwt.algorithm"
	CheckProofJWTType               = "proof.jwt.type"
	CheckProofJWTVerificationMethod = "proof.jwt.verification-method"
	CheckProofJWTSignature          = "proof.jwt.signature"
	CheckProofJWTAge                = "proof.jwt.age"
	CheckProofLinkedDataMissing     = "proof.linked-data.missing"
	CheckProofLinkedDataSignature   = "proof.linked-data.signature"
	CheckProofPolicy                = "proof.policy"
	CheckIssuerDIDResolution        = "issuer-did-resolution"
	CheckIssuerJWKSFetch            = "issuer-jwks-fetch"
	CheckTemporalIssuance           = "temporal.issuance"
	CheckTemporalExpiration         = "temporal.expiration"
	CheckSchemaType                 = "schema.type"
	CheckSchemaCredentialSchema     = "schema.credential-schema"
	CheckSchemaJSONLD               = "schema.json-ld"
	CheckStatusCheck                = "status.check"
)

// VerificationCheck records the outcome of a single check. Checks are
// append-only and never mutated once placed into a result.
type VerificationCheck struct {
	Check   string                 `json:"check"`
	Passed  bool                   `json:"passed"`
	Error   string                 `json:"error,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// passedCheck builds a passing check.
func passedCheck(name string, details map[string]interface{}) VerificationCheck {
	return VerificationCheck{Check: name, Passed: true, Details: details}
}

// failedCheck builds a failing check.
func failedCheck(name, errMsg string, details map[string]interface{}) VerificationCheck {
	return VerificationCheck{Check: name, Passed: false, Error: errMsg, Details: details}
}

// CheckSet groups checks by category.
type CheckSet struct {
	Proof    []VerificationCheck `json:"proof"`
	Issuer   []VerificationCheck `json:"issuer"`
	Temporal []VerificationCheck `json:"temporal"`
	Schema   []VerificationCheck `json:"schema"`
	Status   []VerificationCheck `json:"status"`
}

// newCheckSet returns a CheckSet with empty, non-nil categories.
func newCheckSet() CheckSet {
	return CheckSet{
		Proof:    []VerificationCheck{},
		Issuer:   []VerificationCheck{},
		Temporal: []VerificationCheck{},
		Schema:   []VerificationCheck{},
		Status:   []VerificationCheck{},
	}
}

// ProofResult summarizes one proof's verification, in original proof order.
type ProofResult struct {
	Index              int    `json:"index"`
	ProofType          string `json:"proofType"`
	VerificationMethod string `json:"verificationMethod,omitempty"`
	Passed             bool   `json:"passed"`
	Error              string `json:"error,omitempty"`
}

// Metadata carries run measurements.
type Metadata struct {
	DurationMs int64 `json:"durationMs"`
}

// VerificationResult is the complete, itemized report for one verification
// run. It is returned for every call; a structural failure is reported via
// Status/Error rather than an escaped error.
type VerificationResult struct {
	Status             Status        `json:"status"`
	IsValid            bool          `json:"isValid"`
	Error              string        `json:"error,omitempty"`
	Checks             CheckSet      `json:"checks"`
	ProofResults       []ProofResult `json:"proofResults,omitempty"`
	TotalProofs        int           `json:"totalProofs"`
	PassedProofs       int           `json:"passedProofs"`
	CredentialID       string        `json:"credentialId,omitempty"`
	Issuer             string        `json:"issuer,omitempty"`
	VerificationMethod string        `json:"verificationMethod,omitempty"`
	ProofType          string        `json:"proofType,omitempty"`
	VerifiedAt         time.Time     `json:"verifiedAt"`
	Metadata           Metadata      `json:"metadata"`
}
