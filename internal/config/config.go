// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultJWTSecret   = "your-secret-key-change-in-production"
	defaultServiceName = "sportpulse-api"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	ServiceName       string  `mapstructure:"SERVICE_NAME"`
	JWTSecret         string  `mapstructure:"JWT_SECRET"`
	JWTIssuer         string  `mapstructure:"JWT_ISSUER"`
	TokenTTLHours     int     `mapstructure:"TOKEN_TTL_HOURS"`
	Port              string  `mapstructure:"PORT"`
	DBDriver          string  `mapstructure:"DB_DRIVER"`
	DBHost            string  `mapstructure:"DB_HOST"`
	DBPort            string  `mapstructure:"DB_PORT"`
	DBUser            string  `mapstructure:"DB_USER"`
	DBPassword        string  `mapstructure:"DB_PASSWORD"`
	DBName            string  `mapstructure:"DB_NAME"`
	DBSSLMode         string  `mapstructure:"DB_SSLMODE"`
	SQLitePath        string  `mapstructure:"SQLITE_PATH"`
	RedisURL          string  `mapstructure:"REDIS_URL"`
	AllowedOrigins    string  `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags      string  `mapstructure:"FEATURE_FLAGS"`
	Env               string  `mapstructure:"APP_ENV"`
	UploadDir         string  `mapstructure:"UPLOAD_DIR"`
	MaxUploadSizeMB   int     `mapstructure:"MAX_UPLOAD_SIZE_MB"`
	TracingEnabled    bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter   string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint      string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRate float64 `mapstructure:"TRACING_SAMPLE_RATE"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("SERVICE_NAME", defaultServiceName)
	viper.SetDefault("PORT", "8375")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "sportpulse")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SQLITE_PATH", "sportpulse.db")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "sportpulse-api")
	viper.SetDefault("TOKEN_TTL_HOURS", 24*30)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "raw_token_auth=on")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE_MB", 10)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATE", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.ServiceName = strings.TrimSpace(c.ServiceName)
}

// Service is the name used for traces, metrics and Redis connections.
func (c *Config) Service() string {
	if c.ServiceName == "" {
		return defaultServiceName
	}
	return c.ServiceName
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// TokenTTL is the lifetime of issued session tokens.
func (c *Config) TokenTTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// MaxUploadBytes is the largest accepted image upload.
func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadSizeMB <= 0 {
		return 10 << 20
	}
	return int64(c.MaxUploadSizeMB) << 20
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.MaxUploadSizeMB < 0 {
		return errors.New("MAX_UPLOAD_SIZE_MB must not be negative")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" {
			if c.DBPassword == "password" || c.DBPassword == "" {
				return errors.New("a strong DB_PASSWORD is required in production")
			}
			if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
				return errors.New("DB_SSLMODE must not be 'disable' in production")
			}
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
