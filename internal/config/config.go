package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Service settings
	ServiceName string
	Version     string

	// Database
	DatabaseURL string
	UseDatabase bool

	// Snapshot file for the in-memory store (fallback when no database)
	SnapshotPath string

	// Logging
	LogLevel  string
	LogFormat string

	// Coordinator
	LockWait time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	// Database configuration
	databaseUser := os.Getenv("POSTGRES_USER")
	databasePassword := os.Getenv("POSTGRES_PASSWORD")
	databaseName := os.Getenv("POSTGRES_DB")
	databaseHost := os.Getenv("POSTGRES_HOST")
	databasePort := os.Getenv("POSTGRES_PORT")

	useDatabase := getEnvBool("USE_DATABASE", false)

	var databaseURL string
	if useDatabase {
		if databaseURL = os.Getenv("DATABASE_URL"); databaseURL == "" {
			databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				databaseUser, databasePassword, databaseHost, databasePort, databaseName)
		}
	}

	cfg := &Config{
		ServiceName: getEnvOrDefault("SERVICE_NAME", "Music Library"),
		Version:     getEnvOrDefault("VERSION", "1.0.0"),

		DatabaseURL: databaseURL,
		UseDatabase: useDatabase,

		SnapshotPath: getEnvOrDefault("SNAPSHOT_PATH", "./data/library.json"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),

		LockWait: time.Duration(getEnvInt("LOCK_WAIT_MS", 5000)) * time.Millisecond,
	}

	// Create the snapshot directory if needed (for the in-memory fallback)
	if !useDatabase && cfg.SnapshotPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.SnapshotPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	return cfg, nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "NO":
			return false
		}
	}
	return defaultValue
}
