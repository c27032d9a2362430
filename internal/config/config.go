package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	LogLevel string

	// Pattern table settings
	PatternTablePath string

	// Pipeline settings
	StageBudgetMS int
	WorkerCount   int
	CacheSize     int

	// Audit settings
	AuditDBPath      string
	AuditSampleLimit int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PatternTablePath: getEnv("PATTERN_TABLE_PATH", ""),
		StageBudgetMS:    getEnvInt("STAGE_BUDGET_MS", 2000),
		WorkerCount:      getEnvInt("WORKER_COUNT", 4),
		CacheSize:        getEnvInt("RESULT_CACHE_SIZE", 1024),
		AuditDBPath:      getEnv("AUDIT_DB_PATH", "/data/extraction_audit.db"),
		AuditSampleLimit: getEnvInt("AUDIT_SAMPLE_LIMIT", 10),
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.StageBudgetMS < 1 || c.StageBudgetMS > 60000 {
		return fmt.Errorf("STAGE_BUDGET_MS must be between 1 and 60000")
	}

	if c.WorkerCount < 1 || c.WorkerCount > 256 {
		return fmt.Errorf("WORKER_COUNT must be between 1 and 256")
	}

	if c.CacheSize < 1 || c.CacheSize > 1000000 {
		return fmt.Errorf("RESULT_CACHE_SIZE must be between 1 and 1000000")
	}

	if c.AuditDBPath == "" {
		return fmt.Errorf("AUDIT_DB_PATH is required")
	}

	if c.AuditSampleLimit < 1 || c.AuditSampleLimit > 1000 {
		return fmt.Errorf("AUDIT_SAMPLE_LIMIT must be between 1 and 1000")
	}

	if c.PatternTablePath != "" {
		if _, err := os.Stat(c.PatternTablePath); err != nil {
			return fmt.Errorf("PATTERN_TABLE_PATH is not readable: %w", err)
		}
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
