package config

import (
	"os"
	"strconv"
	"time"
)

// Default values
const (
	DefaultHTTPTimeout = 10 * time.Second
	DefaultUserAgent   = "go-openbadge-sdk/1.0"
	DefaultJSONLDCache = true
)

// Environment variable names
const (
	EnvHTTPTimeout = "OPENBADGE_HTTP_TIMEOUT"
	EnvUserAgent   = "OPENBADGE_USER_AGENT"
	EnvJSONLDCache = "OPENBADGE_JSONLD_CACHE"
)

// HTTPTimeout returns the HTTP client timeout from environment variable or default value
func HTTPTimeout() time.Duration {
	if timeoutStr := os.Getenv(EnvHTTPTimeout); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			return timeout
		}
	}
	return DefaultHTTPTimeout
}

// UserAgent returns the User-Agent header value from environment variable or default value
func UserAgent() string {
	if ua := os.Getenv(EnvUserAgent); ua != "" {
		return ua
	}
	return DefaultUserAgent
}

// JSONLDCache reports whether remote JSON-LD contexts are cached, from
// environment variable or default value
func JSONLDCache() bool {
	if cacheStr := os.Getenv(EnvJSONLDCache); cacheStr != "" {
		if cache, err := strconv.ParseBool(cacheStr); err == nil {
			return cache
		}
	}
	return DefaultJSONLDCache
}
