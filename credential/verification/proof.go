package verification

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/jwt"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/model"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/util"
	verificationmethod "github.com/badgeforge/go-openbadge-sdk/credential/common/verification-method"
)

// Proof type tags this pipeline recognizes.
const (
	ProofTypeJWT                  = "JwtProof2020"
	ProofTypeDataIntegrity        = "DataIntegrityProof"
	ProofTypeEd25519Signature2020 = "Ed25519Signature2020"
	ProofTypeJSONWebSignature2020 = "JsonWebSignature2020"
)

// typAllowList holds the accepted typ header values on signed-token proofs.
var typAllowList = []string{"JWT", "vc+jwt", "vc+ld+json+jwt"}

// proofConcurrency bounds the number of proofs verified in parallel.
const proofConcurrency = 4

type proofKind int

const (
	kindUnknown proofKind = iota
	kindJWT
	kindLinkedData
)

// normalizedProof is one entry of the credential's proof list after
// normalization. For kindJWT, token carries the compact JWS to verify.
type normalizedProof struct {
	index  int
	kind   proofKind
	token  string
	record model.Proof
}

func classifyProof(record model.Proof) proofKind {
	switch record.Type {
	case ProofTypeJWT:
		return kindJWT
	case ProofTypeDataIntegrity, ProofTypeEd25519Signature2020, ProofTypeJSONWebSignature2020:
		return kindLinkedData
	default:
		return kindUnknown
	}
}

// normalizeProofs flattens the credential's proof material into an ordered
// list. A signed-token credential contributes exactly one proof, its
// envelope signature. An embedded proof field may be a single object or an
// array; order is preserved. A credential with no proof at all yields an
// immediate failing check instead of a list.
func normalizeProofs(p *parsedCredential) ([]normalizedProof, *VerificationCheck) {
	if p.isToken {
		return []normalizedProof{{
			kind:   kindJWT,
			token:  p.token,
			record: model.Proof{Type: ProofTypeJWT},
		}}, nil
	}

	entries := util.ToArray(p.doc["proof"])
	if len(entries) == 0 {
		missing := failedCheck(CheckProofLinkedDataMissing, "credential has no proof", nil)
		return nil, &missing
	}

	proofs := make([]normalizedProof, 0, len(entries))
	for i, entry := range entries {
		proof := normalizedProof{index: i}
		if m, ok := entry.(map[string]interface{}); ok {
			if record, err := util.ParseProof(m); err == nil {
				proof.record = record
				proof.kind = classifyProof(record)
				if proof.kind == kindJWT {
					proof.token = record.JWS
				}
			}
		}
		proofs = append(proofs, proof)
	}
	return proofs, nil
}

// verifyProofs verifies every proof, at most proofConcurrency at a time, and
// returns one check per proof in the original proof order.
func (v *Verifier) verifyProofs(ctx context.Context, p *parsedCredential, proofs []normalizedProof, opts *options) []VerificationCheck {
	chain := verificationmethod.NewChain(opts.resolver, v.registry)
	checks := make([]VerificationCheck, len(proofs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(proofConcurrency)
	for i := range proofs {
		proof := proofs[i]
		g.Go(func() error {
			checks[i] = v.verifyProof(gctx, proof, p, chain, opts)
			return nil
		})
	}
	_ = g.Wait()

	return checks
}

// verifyProof verifies a single proof and reports it as one check.
func (v *Verifier) verifyProof(ctx context.Context, proof normalizedProof, p *parsedCredential, chain *verificationmethod.Chain, opts *options) VerificationCheck {
	switch proof.kind {
	case kindJWT:
		return v.verifyJWTProof(ctx, proof, p, chain, opts)
	case kindLinkedData:
		details := map[string]interface{}{"proofType": proof.record.Type}
		if proof.record.Cryptosuite != "" {
			details["cryptosuite"] = proof.record.Cryptosuite
		}
		return failedCheck(CheckProofLinkedDataSignature,
			fmt.Sprintf("%s proof verification is not yet implemented", proof.record.Type),
			details)
	default:
		return failedCheck(CheckProofLinkedDataSignature,
			fmt.Sprintf("unsupported proof type %q", proof.record.Type),
			map[string]interface{}{"proofType": proof.record.Type})
	}
}

// verifyJWTProof runs the signed-token gate sequence: header inspection, key
// resolution, signature verification, then the optional proof age bound.
func (v *Verifier) verifyJWTProof(ctx context.Context, proof normalizedProof, p *parsedCredential, chain *verificationmethod.Chain, opts *options) VerificationCheck {
	if proof.token == "" {
		return failedCheck(CheckProofJWTSignature,
			"JwtProof2020 proof does not embed a compact JWS", nil)
	}

	header, err := jwt.DecodeHeader(proof.token)
	if err != nil {
		return failedCheck(CheckProofJWTSignature,
			fmt.Sprintf("malformed JWT proof: %v", err), nil)
	}
	if header.Alg == "" {
		return failedCheck(CheckProofJWTAlgorithm,
			"JWT header does not declare a signing algorithm", nil)
	}
	if header.Typ != "" && !slices.Contains(typAllowList, header.Typ) {
		return failedCheck(CheckProofJWTType,
			fmt.Sprintf("unexpected typ header %q", header.Typ),
			map[string]interface{}{"typ": header.Typ, "allowed": typAllowList})
	}

	methodID := header.Kid
	if methodID == "" {
		methodID = proof.record.VerificationMethod
	}
	if methodID == "" {
		methodID = p.issuer
	}
	key := chain.Resolve(ctx, methodID)
	if key == nil {
		return failedCheck(CheckProofJWTVerificationMethod,
			fmt.Sprintf("unable to resolve verification method %q", methodID),
			map[string]interface{}{"verificationMethod": methodID})
	}

	details := map[string]interface{}{
		"algorithm":          header.Alg,
		"verificationMethod": methodID,
	}
	if err := jwt.VerifySignature(proof.token, key); err != nil {
		return failedCheck(CheckProofJWTSignature, err.Error(), details)
	}

	if opts.maxProofAge > 0 {
		claims, err := jwt.DecodeClaims(proof.token)
		if err != nil {
			return failedCheck(CheckProofJWTAge,
				fmt.Sprintf("malformed JWT claims: %v", err), details)
		}
		seconds, ok := claims.GetFloat("iat")
		if !ok {
			return failedCheck(CheckProofJWTAge,
				"proof has no iat claim but a maximum proof age is configured", details)
		}
		age := v.now().Sub(time.Unix(int64(seconds), 0))
		details["age"] = int64(age.Seconds())
		if age > opts.maxProofAge+opts.clockTolerance {
			return failedCheck(CheckProofJWTAge,
				fmt.Sprintf("proof is older than the configured maximum age of %s", opts.maxProofAge),
				details)
		}
	}

	return passedCheck(CheckProofJWTSignature, details)
}

// buildProofResults derives the per-proof summary from the per-proof checks,
// preserving proof order.
func buildProofResults(proofs []normalizedProof, checks []VerificationCheck) []ProofResult {
	results := make([]ProofResult, len(proofs))
	for i, proof := range proofs {
		proofType := proof.record.Type
		if proofType == "" {
			proofType = "unknown"
		}
		method := proof.record.VerificationMethod
		if m, ok := checks[i].Details["verificationMethod"].(string); ok {
			method = m
		}
		results[i] = ProofResult{
			Index:              i,
			ProofType:          proofType,
			VerificationMethod: method,
			Passed:             checks[i].Passed,
			Error:              checks[i].Error,
		}
	}
	return results
}

// policyCheck summarizes the proof category under the configured policy.
// PolicyAll requires every proof to pass; PolicyAny requires one. Both
// require at least one proof.
func policyCheck(policy ProofPolicy, total, passed int) VerificationCheck {
	required := 1
	if policy != PolicyAny {
		required = max(total, 1)
	}
	details := map[string]interface{}{
		"policy":         string(policy),
		"requiredToPass": required,
		"totalProofs":    total,
		"passedProofs":   passed,
	}
	if passed >= required {
		return passedCheck(CheckProofPolicy, details)
	}
	return failedCheck(CheckProofPolicy,
		fmt.Sprintf("proof policy %q requires %d passing proof(s), got %d", policy, required, passed),
		details)
}
