package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		expected    *Config
		wantErr     bool
		errContains string
	}{
		{
			name: "default configuration with required secrets",
			setupEnv: func(t *testing.T) {
				t.Setenv("SESSION_SECRET", "test-secret")
				t.Setenv("PRIVY_APP_ID", "app-123")
				t.Setenv("BACKEND_TOKEN_SECRET", "backend-secret")
				t.Setenv("INTERNAL_SHARED_SECRET", "internal-secret")
			},
			expected: &Config{
				Port:             "8888",
				PrivyAPIURL:      "https://auth.privy.io/api/v1",
				SessionTTL:       time.Hour,
				FreshCacheTTL:    5 * time.Minute,
				DegradedCacheTTL: 15 * time.Minute,
				BackendTokenTTL:  5 * time.Minute,
			},
			wantErr: false,
		},
		{
			name: "custom configuration from environment variables",
			setupEnv: func(t *testing.T) {
				t.Setenv("SESSION_SECRET", "test-secret")
				t.Setenv("PRIVY_APP_ID", "app-123")
				t.Setenv("BACKEND_TOKEN_SECRET", "backend-secret")
				t.Setenv("INTERNAL_SHARED_SECRET", "internal-secret")
				t.Setenv("PORT", "9999")
				t.Setenv("PRIVY_API_URL", "http://localhost:4100/api/v1")
				t.Setenv("SESSION_TTL", "30m")
				t.Setenv("FRESH_CACHE_TTL", "2m")
				t.Setenv("DEGRADED_CACHE_TTL", "10m")
			},
			expected: &Config{
				Port:             "9999",
				PrivyAPIURL:      "http://localhost:4100/api/v1",
				SessionTTL:       30 * time.Minute,
				FreshCacheTTL:    2 * time.Minute,
				DegradedCacheTTL: 10 * time.Minute,
				BackendTokenTTL:  5 * time.Minute,
			},
			wantErr: false,
		},
		{
			name: "missing session secret returns error",
			setupEnv: func(t *testing.T) {
				t.Setenv("PRIVY_APP_ID", "app-123")
			},
			wantErr:     true,
			errContains: "SESSION_SECRET",
		},
		{
			name: "missing app id returns error",
			setupEnv: func(t *testing.T) {
				t.Setenv("SESSION_SECRET", "test-secret")
			},
			wantErr:     true,
			errContains: "PRIVY_APP_ID",
		},
		{
			name: "missing backend token secret returns error",
			setupEnv: func(t *testing.T) {
				t.Setenv("SESSION_SECRET", "test-secret")
				t.Setenv("PRIVY_APP_ID", "app-123")
				t.Setenv("INTERNAL_SHARED_SECRET", "internal-secret")
			},
			wantErr:     true,
			errContains: "BACKEND_TOKEN_SECRET",
		},
		{
			name: "missing internal shared secret returns error",
			setupEnv: func(t *testing.T) {
				t.Setenv("SESSION_SECRET", "test-secret")
				t.Setenv("PRIVY_APP_ID", "app-123")
				t.Setenv("BACKEND_TOKEN_SECRET", "backend-secret")
			},
			wantErr:     true,
			errContains: "INTERNAL_SHARED_SECRET",
		},
		{
			name: "invalid TTL format returns error",
			setupEnv: func(t *testing.T) {
				t.Setenv("SESSION_SECRET", "test-secret")
				t.Setenv("PRIVY_APP_ID", "app-123")
				t.Setenv("BACKEND_TOKEN_SECRET", "backend-secret")
				t.Setenv("INTERNAL_SHARED_SECRET", "internal-secret")
				t.Setenv("FRESH_CACHE_TTL", "invalid")
			},
			wantErr:     true,
			errContains: "invalid FRESH_CACHE_TTL",
		},
		{
			name: "fresh TTL must be shorter than degraded TTL",
			setupEnv: func(t *testing.T) {
				t.Setenv("SESSION_SECRET", "test-secret")
				t.Setenv("PRIVY_APP_ID", "app-123")
				t.Setenv("BACKEND_TOKEN_SECRET", "backend-secret")
				t.Setenv("INTERNAL_SHARED_SECRET", "internal-secret")
				t.Setenv("FRESH_CACHE_TTL", "20m")
			},
			wantErr:     true,
			errContains: "FRESH_CACHE_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			tt.setupEnv(t)

			got, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.expected.Port, got.Port)
			assert.Equal(t, tt.expected.PrivyAPIURL, got.PrivyAPIURL)
			assert.Equal(t, tt.expected.SessionTTL, got.SessionTTL)
			assert.Equal(t, tt.expected.FreshCacheTTL, got.FreshCacheTTL)
			assert.Equal(t, tt.expected.DegradedCacheTTL, got.DegradedCacheTTL)
			assert.Equal(t, tt.expected.BackendTokenTTL, got.BackendTokenTTL)
		})
	}
}

func TestLoad_SecretFromFile(t *testing.T) {
	clearEnv(t)

	secretFile := filepath.Join(t.TempDir(), "session_secret")
	require.NoError(t, os.WriteFile(secretFile, []byte("file-secret\n"), 0o600))

	t.Setenv("SESSION_SECRET_FILE", secretFile)
	t.Setenv("PRIVY_APP_ID", "app-123")
	t.Setenv("BACKEND_TOKEN_SECRET", "backend-secret")
	t.Setenv("INTERNAL_SHARED_SECRET", "internal-secret")

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-secret", got.SessionSecret)
}

func TestConfig_Production(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).Production())
	assert.False(t, (&Config{Environment: "development"}).Production())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:                 "8888",
			PrivyAppID:           "app-123",
			SessionSecret:        "secret",
			BackendTokenSecret:   "backend-secret",
			InternalSharedSecret: "internal-secret",
			SessionTTL:           time.Hour,
			FreshCacheTTL:        5 * time.Minute,
			DegradedCacheTTL:     15 * time.Minute,
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid configuration",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing session secret",
			mutate:      func(c *Config) { c.SessionSecret = "" },
			wantErr:     true,
			errContains: "SESSION_SECRET",
		},
		{
			name:        "missing backend token secret",
			mutate:      func(c *Config) { c.BackendTokenSecret = "" },
			wantErr:     true,
			errContains: "BACKEND_TOKEN_SECRET",
		},
		{
			name:        "missing internal shared secret",
			mutate:      func(c *Config) { c.InternalSharedSecret = "" },
			wantErr:     true,
			errContains: "INTERNAL_SHARED_SECRET",
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Port = "" },
			wantErr:     true,
			errContains: "PORT",
		},
		{
			name:        "zero cache TTL",
			mutate:      func(c *Config) { c.FreshCacheTTL = 0 },
			wantErr:     true,
			errContains: "positive",
		},
		{
			name:        "negative session TTL",
			mutate:      func(c *Config) { c.SessionTTL = -time.Minute },
			wantErr:     true,
			errContains: "positive",
		},
		{
			name:        "fresh TTL not shorter than degraded",
			mutate:      func(c *Config) { c.FreshCacheTTL = c.DegradedCacheTTL },
			wantErr:     true,
			errContains: "FRESH_CACHE_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)

			err := config.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "PRIVY_API_URL", "PRIVY_APP_ID", "PRIVY_TIMEOUT",
		"SESSION_SECRET", "SESSION_SECRET_FILE", "SESSION_TTL",
		"FRESH_CACHE_TTL", "DEGRADED_CACHE_TTL",
		"MEMBER_STORE_URL", "INTERNAL_SHARED_SECRET",
		"BACKEND_TOKEN_SECRET", "BACKEND_TOKEN_ISSUER", "BACKEND_TOKEN_AUDIENCE",
		"BACKEND_TOKEN_TTL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
