// Package config reads server and CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/sharedledger/internal/calculator"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "dev-secret-change-me"

type Config struct {
	// HTTP server
	Port        string
	StaticPath  string
	MetricsPath string

	// Database
	DBPath string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Ledger
	MissingMembers string

	// Categorization
	Categorizer       string
	OpenAIAPIKey      string
	OpenAIModel       string
	CategorizeTimeout time.Duration

	// Events
	AMQPURL      string
	AMQPExchange string
}

// LoadDotEnv loads variables from .env files (default ".env") into the
// environment without overriding what is already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		StaticPath:  getEnv("STATIC_PATH", "../frontend/static"),
		MetricsPath: getEnv("METRICS_PATH", "/metrics"),

		DBPath: getEnv("DB_PATH", "./data/ledger.db"),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		MissingMembers: getEnv("LEDGER_MISSING_MEMBERS", "skip"),

		Categorizer:       getEnv("CATEGORIZER", "keyword"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", ""),
		CategorizeTimeout: getEnvDuration("CATEGORIZE_TIMEOUT", 5*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "sharedledger"),
	}
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT secret cannot be empty")
	}
	if c.JWTTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid JWT TTL %v: must be at least 1 minute", c.JWTTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if _, err := calculator.ParseMissingMemberPolicy(c.MissingMembers); err != nil {
		errs = append(errs, err.Error())
	}

	switch c.Categorizer {
	case "keyword", "none":
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, "OPENAI_API_KEY is required when CATEGORIZER is openai")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid categorizer '%s': must be one of keyword, openai, none", c.Categorizer))
	}
	if c.CategorizeTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("invalid categorize timeout %v: must be positive", c.CategorizeTimeout))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Sprintf("invalid metrics path '%s': must start with /", c.MetricsPath))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// AggregateOptions returns the balance aggregation settings. Call after Validate.
func (c *Config) AggregateOptions() calculator.AggregateOptions {
	policy, _ := calculator.ParseMissingMemberPolicy(c.MissingMembers)
	return calculator.AggregateOptions{MissingMembers: policy}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
