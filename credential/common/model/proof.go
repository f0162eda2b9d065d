package model

// Proof represents a Linked Data Proof attached to a Verifiable Credential.
type Proof struct {
	Type               string   `json:"type"`
	Created            string   `json:"created,omitempty"`
	VerificationMethod string   `json:"verificationMethod,omitempty"`
	ProofPurpose       string   `json:"proofPurpose,omitempty"`
	ProofValue         string   `json:"proofValue,omitempty"`
	JWS                string   `json:"jws,omitempty"`
	Disclosures        []string `json:"disclosures,omitempty"`
	Cryptosuite        string   `json:"cryptosuite,omitempty"`
	Challenge          string   `json:"challenge,omitempty"`
	Domain             string   `json:"domain,omitempty"`
}
