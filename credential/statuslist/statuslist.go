// Package statuslist checks credentials against Bitstring Status List
// credentials (and the earlier Status List 2021 form). It implements the
// verification.StatusChecker extension point: install it on a verifier with
// verification.WithStatusChecker(statuslist.NewChecker()).
package statuslist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/config"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/jsonmap"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/jwt"
	"github.com/badgeforge/go-openbadge-sdk/credential/common/util"
	"github.com/badgeforge/go-openbadge-sdk/credential/verification"
)

// Status entry types this checker evaluates.
const (
	EntryTypeBitstring      = "BitstringStatusListEntry"
	EntryTypeStatusList2021 = "StatusList2021Entry"
)

// Status purposes with dedicated failure messages.
const (
	PurposeRevocation = "revocation"
	PurposeSuspension = "suspension"
)

// Checker fetches status list credentials over HTTP and tests the bit each
// credentialStatus entry points at. A set bit fails the status check.
type Checker struct {
	httpClient *http.Client
}

var _ verification.StatusChecker = (*Checker)(nil)

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient overrides the HTTP client used to fetch status lists.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewChecker creates a status list checker.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: config.HTTPTimeout()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckStatus evaluates every credentialStatus entry on the credential and
// returns one check per entry. A credential without credentialStatus passes
// with a single informational check.
func (c *Checker) CheckStatus(ctx context.Context, credential jsonmap.JSONMap) ([]verification.VerificationCheck, error) {
	entries := util.ToArray(credential["credentialStatus"])
	if len(entries) == 0 {
		return []verification.VerificationCheck{{
			Check:   verification.CheckStatusCheck,
			Passed:  true,
			Details: map[string]interface{}{"hasStatus": false},
		}}, nil
	}

	checks := make([]verification.VerificationCheck, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			checks = append(checks, failedStatusCheck("credential status entry is not an object", nil))
			continue
		}
		checks = append(checks, c.checkEntry(ctx, jsonmap.JSONMap(entry)))
	}
	return checks, nil
}

// checkEntry resolves one credentialStatus entry against its status list.
func (c *Checker) checkEntry(ctx context.Context, entry jsonmap.JSONMap) verification.VerificationCheck {
	entryType, _ := entry.GetString("type")
	if entryType != EntryTypeBitstring && entryType != EntryTypeStatusList2021 {
		return failedStatusCheck(
			fmt.Sprintf("unsupported credential status type %q", entryType),
			map[string]interface{}{"statusType": entryType},
		)
	}

	purpose, ok := entry.GetString("statusPurpose")
	if !ok || purpose == "" {
		purpose = PurposeRevocation
	}

	index, err := statusIndex(entry)
	if err != nil {
		return failedStatusCheck(err.Error(), map[string]interface{}{"statusType": entryType})
	}

	listURL, ok := entry.GetString("statusListCredential")
	if !ok || listURL == "" {
		return failedStatusCheck(
			"status entry has no statusListCredential URL",
			map[string]interface{}{"statusType": entryType},
		)
	}

	details := map[string]interface{}{
		"statusType":     entryType,
		"purpose":        purpose,
		"index":          index,
		"listCredential": listURL,
	}

	list, err := c.fetchStatusList(ctx, listURL)
	if err != nil {
		return failedStatusCheck(fmt.Sprintf("failed to fetch status list credential: %v", err), details)
	}

	subject, ok := list.GetMap("credentialSubject")
	if !ok {
		return failedStatusCheck("status list credential has no credentialSubject", details)
	}

	if listPurpose, ok := subject.GetString("statusPurpose"); ok && listPurpose != purpose {
		return failedStatusCheck(
			fmt.Sprintf("status purpose mismatch: entry %q, list %q", purpose, listPurpose),
			details,
		)
	}

	encoded, ok := subject.GetString("encodedList")
	if !ok || encoded == "" {
		return failedStatusCheck("status list credential has no encodedList", details)
	}

	bits, err := decodeBitstring(entryType, encoded)
	if err != nil {
		return failedStatusCheck(fmt.Sprintf("failed to decode status list: %v", err), details)
	}

	set, err := bitAt(bits, index)
	if err != nil {
		return failedStatusCheck(err.Error(), details)
	}
	if set {
		return failedStatusCheck(purposeMessage(purpose), details)
	}

	return verification.VerificationCheck{
		Check:   verification.CheckStatusCheck,
		Passed:  true,
		Details: details,
	}
}

// fetchStatusList retrieves and parses a status list credential. The body may
// be a bare JSON credential or a signed token wrapping one under the vc claim;
// token signatures are not verified here.
func (c *Checker) fetchStatusList(ctx context.Context, listURL string) (jsonmap.JSONMap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", listURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call status list endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status list endpoint returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status list response: %w", err)
	}
	return parseStatusListCredential(body)
}

// parseStatusListCredential decodes a status list credential body.
func parseStatusListCredential(body []byte) (jsonmap.JSONMap, error) {
	trimmed := strings.TrimSpace(string(body))
	if json.Valid([]byte(trimmed)) {
		return jsonmap.Parse([]byte(trimmed))
	}

	claims, err := jwt.DecodeClaims(trimmed)
	if err != nil {
		return nil, fmt.Errorf("status list body is neither JSON nor a signed token")
	}
	if vc, ok := claims.GetMap(jwt.CredentialClaim); ok {
		return vc, nil
	}
	return claims, nil
}

// statusIndex reads statusListIndex, which travels as a string per the status
// list data model but is accepted as a number too.
func statusIndex(entry jsonmap.JSONMap) (int, error) {
	switch v := entry["statusListIndex"].(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid statusListIndex %q", v)
		}
		return n, nil
	case float64:
		n := int(v)
		if v < 0 || float64(n) != v {
			return 0, fmt.Errorf("invalid statusListIndex %v", v)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("status entry has no statusListIndex")
	default:
		return 0, fmt.Errorf("invalid statusListIndex type %T", v)
	}
}

// decodeBitstring expands an encodedList into raw bitstring bytes. Bitstring
// entries carry a multibase base64url payload (leading u); Status List 2021
// entries carry bare base64url.
func decodeBitstring(entryType, encoded string) ([]byte, error) {
	if entryType == EntryTypeBitstring {
		rest, ok := strings.CutPrefix(encoded, "u")
		if !ok {
			return nil, fmt.Errorf("encodedList is not multibase base64url")
		}
		encoded = rest
	}
	return util.DecompressFromBase64URL(strings.TrimRight(encoded, "="))
}

// bitAt reads the bit at index, leftmost bit of the leftmost byte first.
func bitAt(bits []byte, index int) (bool, error) {
	byteIdx := index / 8
	if byteIdx >= len(bits) {
		return false, fmt.Errorf("statusListIndex %d is out of range for a %d-bit list", index, len(bits)*8)
	}
	shift := uint(7 - index%8)
	return (bits[byteIdx]>>shift)&1 == 1, nil
}

// purposeMessage names the failure for a set status bit.
func purposeMessage(purpose string) string {
	switch purpose {
	case PurposeRevocation:
		return "credential has been revoked"
	case PurposeSuspension:
		return "credential has been suspended"
	default:
		return fmt.Sprintf("credential status %q is set", purpose)
	}
}

// failedStatusCheck builds a failing status check.
func failedStatusCheck(errMsg string, details map[string]interface{}) verification.VerificationCheck {
	return verification.VerificationCheck{
		Check:   verification.CheckStatusCheck,
		Passed:  false,
		Error:   errMsg,
		Details: details,
	}
}
