package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port                 string        // Service port
	Environment          string        // "production" enables Secure cookies
	PrivyAPIURL          string        // Identity provider API base URL
	PrivyAppID           string        // Application identifier sent to the provider
	PrivyTimeout         time.Duration // Upstream verification timeout
	SessionSecret        string        // HMAC secret for session credentials
	SessionTTL           time.Duration // Session credential lifetime
	FreshCacheTTL        time.Duration // Fresh verification cache TTL
	DegradedCacheTTL     time.Duration // Degraded (rate-limit) cache TTL
	MemberStoreURL       string        // Internal member-store API base URL
	InternalSharedSecret string        // Shared secret for member-store calls
	BackendTokenSecret   string        // Secret for signing backend JWT tokens
	BackendTokenIssuer   string        // JWT issuer claim
	BackendTokenAudience string        // JWT audience claim
	BackendTokenTTL      time.Duration // JWT token TTL
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:                 getEnv("PORT", "8888"),
		Environment:          getEnv("APP_ENV", "development"),
		PrivyAPIURL:          getEnv("PRIVY_API_URL", "https://auth.privy.io/api/v1"),
		PrivyAppID:           getEnv("PRIVY_APP_ID", ""),
		PrivyTimeout:         5 * time.Second,
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionTTL:           time.Hour,
		FreshCacheTTL:        5 * time.Minute,
		DegradedCacheTTL:     15 * time.Minute,
		MemberStoreURL:       getEnv("MEMBER_STORE_URL", "http://member-store:8080"),
		InternalSharedSecret: getEnv("INTERNAL_SHARED_SECRET", ""),
		BackendTokenSecret:   getEnv("BACKEND_TOKEN_SECRET", ""),
		BackendTokenIssuer:   getEnv("BACKEND_TOKEN_ISSUER", "agartha-hub"),
		BackendTokenAudience: getEnv("BACKEND_TOKEN_AUDIENCE", "agartha-store"),
		BackendTokenTTL:      5 * time.Minute,
	}

	for env, target := range map[string]*time.Duration{
		"SESSION_TTL":        &config.SessionTTL,
		"FRESH_CACHE_TTL":    &config.FreshCacheTTL,
		"DEGRADED_CACHE_TTL": &config.DegradedCacheTTL,
		"BACKEND_TOKEN_TTL":  &config.BackendTokenTTL,
		"PRIVY_TIMEOUT":      &config.PrivyTimeout,
	} {
		if value := os.Getenv(env); value != "" {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s format: %w", env, err)
			}
			*target = duration
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Production reports whether secure cookie attributes should be set.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}

	if c.PrivyAppID == "" {
		return fmt.Errorf("PRIVY_APP_ID cannot be empty")
	}

	if c.BackendTokenSecret == "" {
		return fmt.Errorf("BACKEND_TOKEN_SECRET cannot be empty")
	}

	if c.InternalSharedSecret == "" {
		return fmt.Errorf("INTERNAL_SHARED_SECRET cannot be empty")
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.SessionTTL <= 0 || c.FreshCacheTTL <= 0 || c.DegradedCacheTTL <= 0 {
		return fmt.Errorf("session and cache TTLs must be positive")
	}

	if c.FreshCacheTTL >= c.DegradedCacheTTL {
		return fmt.Errorf("FRESH_CACHE_TTL must be shorter than DEGRADED_CACHE_TTL")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
