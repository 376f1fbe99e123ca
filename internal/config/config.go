package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the client and the sandbox backend
type Config struct {
	Client   ClientConfig
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

// ClientConfig holds the customer client configuration
type ClientConfig struct {
	BaseURL     string
	Timeout     time.Duration
	SessionFile string
}

// ServerConfig holds the sandbox server configuration
type ServerConfig struct {
	Port  int
	Store string // "memory" or "postgres"
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	SSLMode  string
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL:     getEnv("EKTHAA_BASE_URL", "https://api.ekthaa.app"),
			Timeout:     getEnvAsDuration("EKTHAA_TIMEOUT", 30*time.Second),
			SessionFile: getEnv("EKTHAA_SESSION_FILE", defaultSessionFile()),
		},
		Server: ServerConfig{
			Port:  getEnvAsInt("SERVER_PORT", 8080),
			Store: getEnv("SANDBOX_STORE", "memory"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Username: getEnv("DB_USERNAME", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "ekthaa"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "sandbox-secret-key"),
			TokenDuration: getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ekthaa-session.json"
	}
	return filepath.Join(home, ".ekthaa", "session.json")
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
