package util

import (
	"fmt"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/model"
)

// MapSlice transforms a slice of type T to a slice of type U using a mapping function.
func MapSlice[T any, U any](slice []T, mapFn func(T) U) []U {
	result := make([]U, 0, len(slice))
	for _, v := range slice {
		result = append(result, mapFn(v))
	}
	return result
}

// NormalizeTypes flattens a JSON-LD type field (bare string or array) into a
// slice of strings. Non-string entries are dropped.
func NormalizeTypes(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []interface{}:
		types := make([]string, 0, len(v))
		for _, t := range v {
			if typeStr, ok := t.(string); ok {
				types = append(types, typeStr)
			}
		}
		return types
	default:
		return nil
	}
}

// ToArray ensures a value is represented as an array.
func ToArray(value interface{}) []interface{} {
	if value == nil {
		return nil
	}
	if arr, ok := value.([]interface{}); ok {
		return arr
	}
	return []interface{}{value}
}

// ParseProof converts a proof map into a Proof record. Only the type tag is
// required; suite-specific material stays optional so that unsupported suites
// are still recognized.
func ParseProof(proof map[string]interface{}) (model.Proof, error) {
	var result model.Proof
	if t, ok := proof["type"].(string); ok && t != "" {
		result.Type = t
	} else {
		return model.Proof{}, fmt.Errorf("failed to parse proof: invalid or missing type field")
	}
	if created, ok := proof["created"].(string); ok {
		result.Created = created
	}
	if vm, ok := proof["verificationMethod"].(string); ok {
		result.VerificationMethod = vm
	}
	if pp, ok := proof["proofPurpose"].(string); ok {
		result.ProofPurpose = pp
	}
	if pv, ok := proof["proofValue"].(string); ok {
		result.ProofValue = pv
	}
	if jws, ok := proof["jws"].(string); ok {
		result.JWS = jws
	}
	if disclosures, ok := proof["disclosures"].([]interface{}); ok {
		for _, d := range disclosures {
			if ds, ok := d.(string); ok {
				result.Disclosures = append(result.Disclosures, ds)
			}
		}
	}
	if cs, ok := proof["cryptosuite"].(string); ok {
		result.Cryptosuite = cs
	}
	if ch, ok := proof["challenge"].(string); ok {
		result.Challenge = ch
	}
	if dm, ok := proof["domain"].(string); ok {
		result.Domain = dm
	}
	return result, nil
}
