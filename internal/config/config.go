// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver    string `env:"RB_DB_DRIVER" envDefault:"sqlite"` // sqlite or mysql
	DBPath      string `env:"RB_DB_PATH" envDefault:"./data/redeblog.db"`
	DBDSN       string `env:"RB_DB_DSN"` // MySQL DSN when RB_DB_DRIVER=mysql
	TokenSecret string `env:"RB_TOKEN_SECRET,required"`
	TokenTTL    int    `env:"RB_TOKEN_TTL" envDefault:"86400"` // seconds
	ServerHost  string `env:"RB_SERVER_HOST" envDefault:"localhost"`
	ServerPort  int    `env:"RB_SERVER_PORT" envDefault:"8080"`
	Env         string `env:"RB_ENV" envDefault:"development"`
	LogLevel    string `env:"RB_LOG_LEVEL" envDefault:"info"`
	UploadsDir  string `env:"RB_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL     string `env:"RB_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix  string `env:"RB_CACHE_PREFIX" envDefault:"rb:"`   // Redis key prefix
	CacheTTL     int    `env:"RB_CACHE_TTL" envDefault:"300"`      // Default cache TTL in seconds
	CacheMaxSize int    `env:"RB_CACHE_MAX_SIZE" envDefault:"10000"`

	// AI provider configuration
	AIProvider      string `env:"RB_AI_PROVIDER" envDefault:"openai"` // openai, groq or ollama
	AIModel         string `env:"RB_AI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIKey       string `env:"RB_OPENAI_API_KEY"`
	GroqKey         string `env:"RB_GROQ_API_KEY"`
	OllamaBaseURL   string `env:"RB_OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	ImageProvider   string `env:"RB_IMAGE_PROVIDER" envDefault:"openai"` // openai or stability
	StabilityKey    string `env:"RB_STABILITY_API_KEY"`
	AITimeoutSec    int    `env:"RB_AI_TIMEOUT" envDefault:"120"` // per-call timeout in seconds
	AIRetries       int    `env:"RB_AI_RETRIES" envDefault:"1"`   // retries after the first attempt
	AIRetryDelaySec int    `env:"RB_AI_RETRY_DELAY" envDefault:"2"`

	// Automation sweep configuration
	AutomationCron    string `env:"RB_AUTOMATION_CRON" envDefault:"0 * * * *"`
	AutomationEnabled bool   `env:"RB_AUTOMATION_ENABLED" envDefault:"true"`

	// Permission configuration. When true, the coarse "any hotel role may
	// view any network" rule is tightened to verified membership.
	StrictNetworkView bool `env:"RB_STRICT_NETWORK_VIEW" envDefault:"false"`

	// GeoIP configuration
	GeoIPDBPath string `env:"RB_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding configuration
	DoSeed bool `env:"RB_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// AITimeout returns the per-call AI request timeout.
func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSec) * time.Second
}

// AIRetryDelay returns the delay between AI call retries.
func (c Config) AIRetryDelay() time.Duration {
	return time.Duration(c.AIRetryDelaySec) * time.Second
}

// TokenDuration returns the lifetime of issued auth tokens.
func (c Config) TokenDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// MinTokenSecretLength is the minimum required length for the token secret.
const MinTokenSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.TokenSecret) < MinTokenSecretLength {
		return nil, fmt.Errorf("RB_TOKEN_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinTokenSecretLength, len(cfg.TokenSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.TokenSecret == weak {
			return nil, fmt.Errorf("RB_TOKEN_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.TokenSecret) {
		slog.Warn("RB_TOKEN_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "mysql" {
		return nil, fmt.Errorf("RB_DB_DRIVER must be sqlite or mysql, got %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "mysql" && cfg.DBDSN == "" {
		return nil, fmt.Errorf("RB_DB_DSN is required when RB_DB_DRIVER=mysql")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
