package model

// DIDDocument represents the structure of a resolved DID Document.
type DIDDocument struct {
	Context            interface{}               `json:"@context,omitempty"`
	ID                 string                    `json:"id"`
	Controller         interface{}               `json:"controller,omitempty"` // Can be string or []string
	VerificationMethod []VerificationMethodEntry `json:"verificationMethod,omitempty"`
	Authentication     []interface{}             `json:"authentication,omitempty"`
	AssertionMethod    []interface{}             `json:"assertionMethod,omitempty"`
	Service            []Service                 `json:"service,omitempty"`
}

// VerificationMethodEntry represents a single verification method in a DID Document.
type VerificationMethodEntry struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller,omitempty"`
	PublicKeyHex       string `json:"publicKeyHex,omitempty"`
	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
	PublicKeyJwk       *JWK   `json:"publicKeyJwk,omitempty"`
}

// Service represents a service endpoint entry in a DID Document.
type Service struct {
	ID              string      `json:"id,omitempty"`
	Type            string      `json:"type"`
	ServiceEndpoint interface{} `json:"serviceEndpoint"` // Can be string, map, or []string
}

// Endpoint returns the service endpoint as a string when it has one.
func (s Service) Endpoint() string {
	switch v := s.ServiceEndpoint.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if str, ok := v[0].(string); ok {
				return str
			}
		}
	}
	return ""
}
