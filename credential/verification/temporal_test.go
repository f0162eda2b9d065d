package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badgeforge/go-openbadge-sdk/credential/common/jsonmap"
)

func TestValidateTemporal(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name               string
		doc                jsonmap.JSONMap
		clockTolerance     time.Duration
		allowExpired       bool
		wantIssuancePass   bool
		wantExpirationPass bool
		errorMsg           string
	}{
		{
			name: "Inside validity window",
			doc: jsonmap.JSONMap{
				"validFrom":  "2025-01-01T00:00:00Z",
				"validUntil": "2026-01-01T00:00:00Z",
			},
			wantIssuancePass:   true,
			wantExpirationPass: true,
		},
		{
			name:               "No dates at all",
			doc:                jsonmap.JSONMap{},
			wantIssuancePass:   false,
			wantExpirationPass: true,
			errorMsg:           "no validFrom or issuanceDate",
		},
		{
			name: "Issuance in the future",
			doc: jsonmap.JSONMap{
				"validFrom": "2025-09-01T00:00:00Z",
			},
			wantIssuancePass:   false,
			wantExpirationPass: true,
			errorMsg:           "in the future",
		},
		{
			name: "Issuance skew inside tolerance",
			doc: jsonmap.JSONMap{
				"validFrom": "2025-08-25T12:00:30Z",
			},
			clockTolerance:     time.Minute,
			wantIssuancePass:   true,
			wantExpirationPass: true,
		},
		{
			name: "Expired",
			doc: jsonmap.JSONMap{
				"validFrom":  "2025-01-01T00:00:00Z",
				"validUntil": "2025-08-01T00:00:00Z",
			},
			wantIssuancePass:   true,
			wantExpirationPass: false,
			errorMsg:           "expired",
		},
		{
			name: "Expired but tolerated",
			doc: jsonmap.JSONMap{
				"validFrom":  "2025-01-01T00:00:00Z",
				"validUntil": "2025-08-01T00:00:00Z",
			},
			allowExpired:       true,
			wantIssuancePass:   true,
			wantExpirationPass: true,
		},
		{
			name: "Expiration skew inside tolerance",
			doc: jsonmap.JSONMap{
				"validFrom":  "2025-01-01T00:00:00Z",
				"validUntil": "2025-08-25T11:59:30Z",
			},
			clockTolerance:     time.Minute,
			wantIssuancePass:   true,
			wantExpirationPass: true,
		},
		{
			name: "validFrom preferred over issuanceDate",
			doc: jsonmap.JSONMap{
				"validFrom":    "2025-09-01T00:00:00Z",
				"issuanceDate": "2025-01-01T00:00:00Z",
			},
			wantIssuancePass:   false,
			wantExpirationPass: true,
			errorMsg:           "validFrom is in the future",
		},
		{
			name: "validUntil preferred over expirationDate",
			doc: jsonmap.JSONMap{
				"validFrom":      "2025-01-01T00:00:00Z",
				"validUntil":     "2026-01-01T00:00:00Z",
				"expirationDate": "2025-02-01T00:00:00Z",
			},
			wantIssuancePass:   true,
			wantExpirationPass: true,
		},
		{
			name: "Unparsable issuance timestamp",
			doc: jsonmap.JSONMap{
				"validFrom": "next tuesday",
			},
			wantIssuancePass:   false,
			wantExpirationPass: true,
			errorMsg:           "invalid validFrom timestamp",
		},
	}

	v := offlineVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := &parsedCredential{doc: tt.doc}
			opts := &options{clockTolerance: tt.clockTolerance, allowExpired: tt.allowExpired}

			checks := v.validateTemporal(parsed, opts, now)

			issuance := checkByName(checks, CheckTemporalIssuance)
			require.NotNil(t, issuance)
			assert.Equal(t, tt.wantIssuancePass, issuance.Passed)

			expiration := checkByName(checks, CheckTemporalExpiration)
			require.NotNil(t, expiration)
			assert.Equal(t, tt.wantExpirationPass, expiration.Passed)

			if tt.errorMsg != "" {
				combined := issuance.Error + " " + expiration.Error
				assert.Contains(t, combined, tt.errorMsg)
			}
		})
	}
}

func TestValidateTemporalDetails(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)
	v := offlineVerifier()

	parsed := &parsedCredential{doc: jsonmap.JSONMap{
		"validFrom":  "2025-08-25T11:00:00Z",
		"validUntil": "2025-08-25T13:00:00Z",
	}}
	checks := v.validateTemporal(parsed, &options{}, now)

	issuance := checkByName(checks, CheckTemporalIssuance)
	require.NotNil(t, issuance)
	assert.Equal(t, int64(3600), issuance.Details["age"])
	assert.Equal(t, "validFrom", issuance.Details["source"])

	expiration := checkByName(checks, CheckTemporalExpiration)
	require.NotNil(t, expiration)
	assert.Equal(t, int64(3600), expiration.Details["expiresIn"])
	assert.Equal(t, true, expiration.Details["hasExpiration"])

	noExpiry := &parsedCredential{doc: jsonmap.JSONMap{"validFrom": "2025-01-01T00:00:00Z"}}
	checks = v.validateTemporal(noExpiry, &options{}, now)
	expiration = checkByName(checks, CheckTemporalExpiration)
	require.NotNil(t, expiration)
	assert.Equal(t, false, expiration.Details["hasExpiration"])
}
