package config

import (
	"fmt"
	"os"
	"time"
)

// AuthConfig configures session verification against the club's auth service.
//
// These values are deployment-provided.
type AuthConfig struct {
	// VerifyURL is the auth service endpoint that resolves a session token
	// to an identity.
	VerifyURL string

	// CacheTTL bounds how long a verified session is reused without a
	// round trip. Zero disables caching.
	CacheTTL time.Duration

	HTTPTimeout time.Duration
}

func LoadAuthConfigFromEnv() (AuthConfig, error) {
	verifyURL := os.Getenv("AUTH_VERIFY_URL")
	if verifyURL == "" {
		return AuthConfig{}, fmt.Errorf("missing required env var: AUTH_VERIFY_URL")
	}

	// Reasonable defaults that make local/dev/test behavior predictable.
	cfg := AuthConfig{
		VerifyURL:   verifyURL,
		CacheTTL:    30 * time.Second,
		HTTPTimeout: 5 * time.Second,
	}

	if v := os.Getenv("AUTH_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("AUTH_CACHE_TTL must be a duration (e.g. 30s): %w", err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("AUTH_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("AUTH_HTTP_TIMEOUT must be a duration (e.g. 5s): %w", err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}
