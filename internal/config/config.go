package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/database"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// LevelForEnvironment maps an APP_ENV value to the logrus level used by the service
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int      `json:"port"`
	Host        string   `json:"host"`
	Environment string   `json:"environment"`
	CORSOrigins []string `json:"cors_origins"`

	// Database configuration
	Database database.DatabaseConfig `json:"database"`

	// Collaborators. Empty values disable the integration.
	RedisURL           string `json:"redis_url"`
	PantryServiceURL   string `json:"pantry_service_url"`
	PantryServiceToken string `json:"-"`

	// Matching pipeline
	MatchWorkers       int `json:"match_workers"`
	PersistConcurrency int `json:"persist_concurrency"`

	// Rate limiting, requests per second and burst per client IP
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret string `json:"jwt_secret"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, Database: %s, RedisURL: %s, PantryServiceURL: %s, MatchWorkers: %d, PersistConcurrency: %d, RateLimitRPS: %.2f, RateLimitBurst: %d, LogLevel: %s, JWTSecret: [REDACTED]}",
		c.Port, c.Host, c.Environment, c.Database.String(), maskURL(c.RedisURL), c.PantryServiceURL,
		c.MatchWorkers, c.PersistConcurrency, c.RateLimitRPS, c.RateLimitBurst, c.LogLevel)
}

// maskURL masks the password of a connection URL
func maskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
		}
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It also validates formats like the collaborator URLs and the worker counts
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	redisURL := GetEnvWithDefault("REDIS_URL", "")
	if redisURL != "" {
		if _, err := url.ParseRequestURI(redisURL); err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL format: %w", err)
		}
	}

	pantryURL := strings.TrimRight(GetEnvWithDefault("PANTRY_SERVICE_URL", ""), "/")
	if pantryURL != "" {
		if _, err := url.ParseRequestURI(pantryURL); err != nil {
			return nil, fmt.Errorf("invalid PANTRY_SERVICE_URL format: %w", err)
		}
	}

	environment := GetEnvWithDefault("APP_ENV", "development")

	config := &Config{
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "localhost"),
		Environment: environment,
		CORSOrigins: splitList(GetEnvWithDefault("CORS_ORIGINS", "*")),
		Database: database.DatabaseConfig{
			Driver:   GetEnvWithDefault("DB_DRIVER", "sqlite"),
			Host:     GetEnvWithDefault("DB_HOST", "localhost"),
			Port:     GetEnvWithDefault("DB_PORT", "5432"),
			User:     GetEnvWithDefault("DB_USER", "user"),
			Password: GetEnvWithDefault("DB_PASSWORD", "password"),
			Name:     GetEnvWithDefault("DB_NAME", "recipes"),
			SSLMode:  GetEnvWithDefault("DB_SSLMODE", "disable"),
			Path:     GetEnvWithDefault("DB_PATH", "recipes.sqlite"),
		},
		RedisURL:           redisURL,
		PantryServiceURL:   pantryURL,
		PantryServiceToken: GetEnvWithDefault("PANTRY_SERVICE_TOKEN", ""),
		MatchWorkers:       GetEnvAsType("MATCH_WORKERS", 8),
		PersistConcurrency: GetEnvAsType("PERSIST_CONCURRENCY", 4),
		RateLimitRPS:       GetEnvAsType("RATE_LIMIT_RPS", 10.0),
		RateLimitBurst:     GetEnvAsType("RATE_LIMIT_BURST", 20),
		LogLevel:           GetEnvWithDefault("LOG_LEVEL", LevelForEnvironment(environment).String()),
		JWTSecret:          GetEnvWithDefault("JWT_SECRET", "secret"),
	}

	if config.MatchWorkers <= 0 {
		return nil, fmt.Errorf("MATCH_WORKERS must be positive, got %d", config.MatchWorkers)
	}
	if config.PersistConcurrency <= 0 {
		return nil, fmt.Errorf("PERSIST_CONCURRENCY must be positive, got %d", config.PersistConcurrency)
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case float64:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return any(floatValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
