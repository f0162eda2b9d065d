package verification

import (
	"fmt"
	"slices"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/jsonmap"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/schema"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/util"
)

// Credential type tags this pipeline recognizes.
const (
	TypeVerifiableCredential  = "VerifiableCredential"
	TypeOpenBadgeCredential   = "OpenBadgeCredential"
	TypeAchievementCredential = "AchievementCredential"
)

// validateSchema checks the credential's declared types and, when enabled,
// its credentialSchema references and JSON-LD shape. The badge subtype is
// reported in the details but is not required to pass.
func (v *Verifier) validateSchema(p *parsedCredential, opts *options) []VerificationCheck {
	checks := make([]VerificationCheck, 0, 1)

	switch {
	case len(p.types) == 0:
		checks = append(checks, failedCheck(CheckSchemaType,
			"credential type must be a non-empty list of strings", nil))
	case !slices.Contains(p.types, TypeVerifiableCredential):
		checks = append(checks, failedCheck(CheckSchemaType,
			fmt.Sprintf("credential type must include %q", TypeVerifiableCredential),
			map[string]interface{}{"types": p.types}))
	default:
		details := map[string]interface{}{
			"types":       p.types,
			"isOpenBadge": false,
		}
		for _, badgeType := range []string{TypeOpenBadgeCredential, TypeAchievementCredential} {
			if slices.Contains(p.types, badgeType) {
				details["isOpenBadge"] = true
				details["badgeType"] = badgeType
				break
			}
		}
		checks = append(checks, passedCheck(CheckSchemaType, details))
	}

	if opts.validateCredentialSchema {
		checks = append(checks, v.validateCredentialSchemas(p)...)
	}
	if opts.validateJSONLD {
		checks = append(checks, v.validateJSONLD(p))
	}
	return checks
}

// validateCredentialSchemas validates the credential body against each JSON
// Schema it references.
func (v *Verifier) validateCredentialSchemas(p *parsedCredential) []VerificationCheck {
	entries := util.ToArray(p.doc["credentialSchema"])
	if len(entries) == 0 {
		return nil
	}
	checks := make([]VerificationCheck, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		schemaID, ok := jsonmap.JSONMap(m).GetString("id")
		if !ok || schemaID == "" {
			continue
		}
		details := map[string]interface{}{"schemaId": schemaID}
		if err := schema.ValidateJSONSchema(p.doc, schemaID); err != nil {
			checks = append(checks, failedCheck(CheckSchemaCredentialSchema, err.Error(), details))
			continue
		}
		checks = append(checks, passedCheck(CheckSchemaCredentialSchema, details))
	}
	return checks
}

// validateJSONLD canonicalizes the credential body to catch malformed
// JSON-LD.
func (v *Verifier) validateJSONLD(p *parsedCredential) VerificationCheck {
	if _, err := schema.CanonicalizeDocument(p.doc); err != nil {
		return failedCheck(CheckSchemaJSONLD,
			fmt.Sprintf("failed to canonicalize credential: %v", err), nil)
	}
	return passedCheck(CheckSchemaJSONLD, nil)
}
