package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		return Config{
			Env:        "production",
			DBDriver:   "postgres",
			DBSSLMode:  "require",
			JWTSecret:  "secure-secret-at-least-32-chars-long",
			DBPassword: "secure-password",
			Port:       "8080",
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Production valid", func(*Config) {}, false},
		{"Production with disable SSL mode", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"Production with empty SSL mode", func(c *Config) { c.DBSSLMode = "" }, true},
		{"Production with default secret", func(c *Config) { c.JWTSecret = defaultJWTSecret }, true},
		{"Production with short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"Production with weak db password", func(c *Config) { c.DBPassword = "password" }, true},
		{"Production sqlite skips db checks", func(c *Config) { c.DBDriver = "sqlite"; c.DBPassword = "" }, false},
		{"Development with disable SSL mode", func(c *Config) { c.Env = "development"; c.DBSSLMode = "disable" }, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"Negative upload size", func(c *Config) { c.MaxUploadSizeMB = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_DRIVER", "SQLite")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "8375", c.Port)
	assert.Equal(t, 30*24*time.Hour, c.TokenTTL())
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes())
	assert.Contains(t, c.FeatureFlags, "raw_token_auth")
	assert.Equal(t, "sportpulse-api", c.Service())
}

func TestLoadConfig_ServiceName(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("SERVICE_NAME", " sportpulse-eu ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sportpulse-eu", c.Service())
}

func TestTokenTTL_Fallback(t *testing.T) {
	c := &Config{}
	assert.Equal(t, "sportpulse-api", c.Service())
	assert.Equal(t, 30*24*time.Hour, c.TokenTTL())
	c.TokenTTLHours = 2
	assert.Equal(t, 2*time.Hour, c.TokenTTL())
}
