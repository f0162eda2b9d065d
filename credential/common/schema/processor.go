package schema

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
	"github.com/xeipuuv/gojsonschema"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/config"
)

// defaultDocumentLoader is a shared caching loader to prevent repeated fetches across function calls.
var defaultDocumentLoader ld.DocumentLoader

func init() {
	innerLoader := ld.NewDefaultDocumentLoader(nil) // HTTP client
	if config.JSONLDCache() {
		defaultDocumentLoader = ld.NewCachingDocumentLoader(innerLoader)
	} else {
		defaultDocumentLoader = innerLoader
	}
}

// CanonicalizeDocument canonicalizes a document using JSON-LD processing. A
// document that cannot be canonicalized is not valid JSON-LD.
func CanonicalizeDocument(doc map[string]interface{}) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	processor := ld.NewJsonLdProcessor()
	jsonldOptions := ld.NewJsonLdOptions("")
	jsonldOptions.Format = "application/n-quads"
	jsonldOptions.Algorithm = ld.AlgorithmURDNA2015
	// Use the shared loader to cache remote contexts
	jsonldOptions.DocumentLoader = defaultDocumentLoader

	canonicalized, err := processor.Normalize(doc, jsonldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}

	return []byte(canonicalized.(string)), nil
}

// ValidateJSONSchema validates a document against the JSON Schema published
// at schemaURL.
func ValidateJSONSchema(doc map[string]interface{}, schemaURL string) error {
	if schemaURL == "" {
		return fmt.Errorf("schema URL is empty")
	}

	schemaLoader := gojsonschema.NewReferenceLoader(schemaURL)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("document does not conform to %s: %v", schemaURL, result.Errors())
	}
	return nil
}
