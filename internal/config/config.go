package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                     int    `env:"PORT" envDefault:"8080"`
	StorageDriver            string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL              string `env:"DATABASE_URL"`
	RedisURL                 string `env:"REDIS_URL,required"`
	AuthTokenSecret          string `env:"AUTH_TOKEN_SECRET"`
	OpenAIAPIKey             string `env:"OPENAI_API_KEY"`
	OpenAIModel              string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIEndpoint           string `env:"OPENAI_ENDPOINT" envDefault:"https://api.openai.com/v1/chat/completions"`
	CompletionTimeoutSeconds int    `env:"COMPLETION_TIMEOUT_SECONDS" envDefault:"90"`
	RateLimitPerMin          int    `env:"MENTOR_RATE_LIMIT_PER_MIN" envDefault:"20"`
	IPRateLimitPerMin        int    `env:"IP_RATE_LIMIT_PER_MIN" envDefault:"300"`
	SessionIdleDays          int    `env:"SESSION_IDLE_DAYS" envDefault:"30"`
	LogLevel                 string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) CompletionTimeout() time.Duration {
	return time.Duration(c.CompletionTimeoutSeconds) * time.Second
}

// SessionIdleAfter is how long a session may go without an update before the
// idle job marks it inactive. Zero disables the job.
func (c *Config) SessionIdleAfter() time.Duration {
	return time.Duration(c.SessionIdleDays) * 24 * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StorageDriverPostgres)
		}
	case StorageDriverMemory:
		if isProduction {
			return fmt.Errorf("STORAGE_DRIVER=%s is not allowed in production", StorageDriverMemory)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected %s or %s)", c.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}

	if c.CompletionTimeoutSeconds <= 0 {
		return fmt.Errorf("COMPLETION_TIMEOUT_SECONDS must be positive")
	}
	if c.CompletionTimeout() >= ServerRequestTimeout {
		return fmt.Errorf("COMPLETION_TIMEOUT_SECONDS must be below the server request timeout (%s)", ServerRequestTimeout)
	}

	if c.AuthTokenSecret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}

	if isProduction {
		if err := validateSecret("AUTH_TOKEN_SECRET", c.AuthTokenSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	// Requests still fail with a configuration error; starting without a key
	// keeps session history browsable.
	if c.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty: completion requests will fail")
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
