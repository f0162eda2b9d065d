package verification

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/jsonmap"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/jwt"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/util"
)

var jwtPattern = regexp.MustCompile(`^[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+$`)

// parsedCredential is the normalized view of a credential input that the
// pipeline stages operate on. doc is always a private copy.
type parsedCredential struct {
	doc     jsonmap.JSONMap
	token   string
	isToken bool
	id      string
	issuer  string
	types   []string
}

// parseInput normalizes the supported input shapes. Any returned error is
// structural: the credential could not be understood at all and verification
// must stop with status "error".
func parseInput(raw interface{}) (*parsedCredential, error) {
	switch v := raw.(type) {
	case string:
		return parseString(strings.TrimSpace(v))
	case []byte:
		return parseString(strings.TrimSpace(string(v)))
	case json.RawMessage:
		return parseString(strings.TrimSpace(string(v)))
	case jsonmap.JSONMap:
		return parseObject(v)
	case map[string]interface{}:
		return parseObject(jsonmap.JSONMap(v))
	case nil:
		return nil, fmt.Errorf("credential input is empty")
	default:
		return nil, fmt.Errorf("unsupported credential input type %T", raw)
	}
}

func parseString(s string) (*parsedCredential, error) {
	if s == "" {
		return nil, fmt.Errorf("credential input is empty")
	}
	if json.Valid([]byte(s)) {
		doc, err := jsonmap.Parse([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("failed to parse credential JSON: %w", err)
		}
		return parseObject(doc)
	}
	if jwtPattern.MatchString(s) {
		return parseToken(s)
	}
	return nil, fmt.Errorf("credential input is not a signed token or a JSON object")
}

// parseToken decodes a compact signed token and lifts its payload into a
// credential document, mapping registered claims onto credential fields when
// the document does not set them itself.
func parseToken(token string) (*parsedCredential, error) {
	if _, err := jwt.DecodeHeader(token); err != nil {
		return nil, fmt.Errorf("malformed signed token: %w", err)
	}
	claims, err := jwt.DecodeClaims(token)
	if err != nil {
		return nil, fmt.Errorf("malformed signed token: %w", err)
	}

	var doc jsonmap.JSONMap
	if vc, ok := claims.GetMap(jwt.CredentialClaim); ok {
		doc = vc.Copy()
	} else {
		doc = claims.Copy()
	}

	if _, ok := doc["issuer"]; !ok {
		if iss, ok := claims.GetString("iss"); ok {
			doc["issuer"] = iss
		}
	}
	if _, ok := doc["id"]; !ok {
		if jti, ok := claims.GetString("jti"); ok {
			doc["id"] = jti
		}
	}
	_, hasValidFrom := doc["validFrom"]
	_, hasIssuanceDate := doc["issuanceDate"]
	if !hasValidFrom && !hasIssuanceDate {
		if issued, ok := claimTime(claims, "nbf"); ok {
			doc["issuanceDate"] = issued
		} else if issued, ok := claimTime(claims, "iat"); ok {
			doc["issuanceDate"] = issued
		}
	}
	_, hasValidUntil := doc["validUntil"]
	_, hasExpirationDate := doc["expirationDate"]
	if !hasValidUntil && !hasExpirationDate {
		if expires, ok := claimTime(claims, "exp"); ok {
			doc["expirationDate"] = expires
		}
	}

	p := &parsedCredential{doc: doc, token: token, isToken: true}
	if err := finishParse(p); err != nil {
		return nil, err
	}
	return p, nil
}

func parseObject(m jsonmap.JSONMap) (*parsedCredential, error) {
	p := &parsedCredential{doc: m.Copy()}
	if err := finishParse(p); err != nil {
		return nil, err
	}
	return p, nil
}

// finishParse extracts the identifying fields and enforces the minimal
// structure every credential must have.
func finishParse(p *parsedCredential) error {
	issuer, err := extractIssuer(p.doc)
	if err != nil {
		return err
	}
	p.issuer = issuer

	if _, ok := p.doc["type"]; !ok {
		return fmt.Errorf("credential is missing required field \"type\"")
	}
	p.types = util.NormalizeTypes(p.doc["type"])

	if id, ok := p.doc.GetString("id"); ok {
		p.id = id
	}
	return nil
}

// extractIssuer reads the issuer field, which may be a bare identifier or an
// object carrying one under id.
func extractIssuer(doc jsonmap.JSONMap) (string, error) {
	raw, ok := doc["issuer"]
	if !ok {
		return "", fmt.Errorf("credential is missing required field \"issuer\"")
	}
	switch v := raw.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case map[string]interface{}:
		if id, ok := jsonmap.JSONMap(v).GetString("id"); ok && id != "" {
			return id, nil
		}
	case jsonmap.JSONMap:
		if id, ok := v.GetString("id"); ok && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("credential is missing required field \"issuer\"")
}

// claimTime reads a numeric-date claim as an RFC 3339 timestamp.
func claimTime(claims jsonmap.JSONMap, key string) (string, bool) {
	seconds, ok := claims.GetFloat(key)
	if !ok {
		return "", false
	}
	return time.Unix(int64(seconds), 0).UTC().Format(time.RFC3339), true
}
