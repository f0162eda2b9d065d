package verification

import (
	"fmt"
	"time"
)

// issuanceDate reads the credential's issuance timestamp, preferring the
// v2 validFrom field over the v1 issuanceDate field.
func (p *parsedCredential) issuanceDate() (field, value string) {
	if v, ok := p.doc.GetString("validFrom"); ok && v != "" {
		return "validFrom", v
	}
	if v, ok := p.doc.GetString("issuanceDate"); ok && v != "" {
		return "issuanceDate", v
	}
	return "", ""
}

// expirationDate reads the credential's expiration timestamp, preferring the
// v2 validUntil field over the v1 expirationDate field.
func (p *parsedCredential) expirationDate() (field, value string) {
	if v, ok := p.doc.GetString("validUntil"); ok && v != "" {
		return "validUntil", v
	}
	if v, ok := p.doc.GetString("expirationDate"); ok && v != "" {
		return "expirationDate", v
	}
	return "", ""
}

// validateTemporal checks the credential's validity window against now,
// applying the configured clock tolerance on both bounds.
func (v *Verifier) validateTemporal(p *parsedCredential, opts *options, now time.Time) []VerificationCheck {
	checks := make([]VerificationCheck, 0, 2)

	issuanceField, issuanceValue := p.issuanceDate()
	switch {
	case issuanceValue == "":
		checks = append(checks, failedCheck(CheckTemporalIssuance,
			"credential has no validFrom or issuanceDate", nil))
	default:
		issued, err := time.Parse(time.RFC3339, issuanceValue)
		switch {
		case err != nil:
			checks = append(checks, failedCheck(CheckTemporalIssuance,
				fmt.Sprintf("invalid %s timestamp: %v", issuanceField, err),
				map[string]interface{}{"source": issuanceField}))
		case issued.After(now.Add(opts.clockTolerance)):
			checks = append(checks, failedCheck(CheckTemporalIssuance,
				fmt.Sprintf("%s is in the future", issuanceField),
				map[string]interface{}{"source": issuanceField, issuanceField: issuanceValue}))
		default:
			checks = append(checks, passedCheck(CheckTemporalIssuance, map[string]interface{}{
				"source": issuanceField,
				"age":    int64(now.Sub(issued).Seconds()),
			}))
		}
	}

	expirationField, expirationValue := p.expirationDate()
	switch {
	case expirationValue == "":
		checks = append(checks, passedCheck(CheckTemporalExpiration,
			map[string]interface{}{"hasExpiration": false}))
	default:
		expires, err := time.Parse(time.RFC3339, expirationValue)
		switch {
		case err != nil:
			checks = append(checks, failedCheck(CheckTemporalExpiration,
				fmt.Sprintf("invalid %s timestamp: %v", expirationField, err),
				map[string]interface{}{"source": expirationField}))
		case now.After(expires.Add(opts.clockTolerance)):
			if opts.allowExpired {
				checks = append(checks, passedCheck(CheckTemporalExpiration, map[string]interface{}{
					"hasExpiration": true,
					"isExpired":     true,
					"allowExpired":  true,
				}))
				break
			}
			checks = append(checks, failedCheck(CheckTemporalExpiration,
				fmt.Sprintf("credential expired at %s", expirationValue),
				map[string]interface{}{"hasExpiration": true, "isExpired": true}))
		default:
			checks = append(checks, passedCheck(CheckTemporalExpiration, map[string]interface{}{
				"hasExpiration": true,
				"expiresIn":     int64(expires.Sub(now).Seconds()),
			}))
		}
	}

	return checks
}
