package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProductionConfig() *Config {
	return &Config{
		Env:        "production",
		Port:       "5000",
		JWTSecret:  "secure-secret-at-least-32-chars-long",
		DBPassword: "secure-password",
		DBSSLMode:  "require",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:   "Valid Production Config",
			mutate: func(*Config) {},
		},
		{
			name:        "Missing Port",
			mutate:      func(c *Config) { c.Port = "" },
			expectError: true,
		},
		{
			name:        "Missing JWT Secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			expectError: true,
		},
		{
			name:        "Default JWT Secret In Production",
			mutate:      func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" },
			expectError: true,
		},
		{
			name:        "Short JWT Secret In Production",
			mutate:      func(c *Config) { c.JWTSecret = "short" },
			expectError: true,
		},
		{
			name:        "Default DB Password In Production",
			mutate:      func(c *Config) { c.DBPassword = "password" },
			expectError: true,
		},
		{
			name: "Development Tolerates Weak Settings",
			mutate: func(c *Config) {
				c.Env = "development"
				c.JWTSecret = "dev-secret"
				c.DBPassword = "password"
			},
		},
		{
			name: "Missing Provider Keys Warn Only",
			mutate: func(c *Config) {
				c.GeminiAPIKey = ""
				c.YouTubeAPIKey = ""
				c.EmailUser = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
