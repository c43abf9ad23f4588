package database

import (
	"fmt"
	"strings"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string `json:"driver"`

	// PostgreSQL-specific configuration
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	Name     string `json:"name"`
	SSLMode  string `json:"ssl_mode"`

	// SQLite-specific configuration, ":memory:" keeps everything in process
	Path string `json:"path"`

	// MaxRetries bounds the connection attempts, zero means the default of 5
	MaxRetries int `json:"max_retries"`
}

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}

// NormalizedDriver returns the lower-cased driver name, sqlite when empty
func (c *DatabaseConfig) NormalizedDriver() string {
	switch driver := strings.ToLower(c.Driver); driver {
	case "postgresql":
		return "postgres"
	case "":
		return "sqlite"
	default:
		return driver
	}
}

// DSN builds a Data Source Name string based on the driver
func (c *DatabaseConfig) DSN() string {
	switch c.NormalizedDriver() {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite":
		return c.Path
	default:
		return ""
	}
}
