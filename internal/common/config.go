package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	OCR     OCRConfig
	Batch   BatchConfig
	Catalog CatalogConfig
}

// OCRConfig holds remote OCR service configuration
type OCRConfig struct {
	Endpoint     string
	APIKey       string
	PollInterval time.Duration
	MaxAttempts  int
}

// BatchConfig holds worker-pool configuration for batch processing
type BatchConfig struct {
	Workers    int
	DocTimeout time.Duration
}

// CatalogConfig points at the read-only reference inputs
type CatalogConfig struct {
	PackagePath    string
	TreatmentsPath string
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables.
func LoadConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		OCR: OCRConfig{
			Endpoint:     getEnv("OCR_ENDPOINT", ""),
			APIKey:       getEnv("OCR_API_KEY", ""),
			PollInterval: getEnvAsDuration("OCR_POLL_INTERVAL", 1250*time.Millisecond),
			MaxAttempts:  getEnvAsInt("OCR_MAX_ATTEMPTS", 30),
		},
		Batch: BatchConfig{
			Workers:    getEnvAsInt("BATCH_WORKERS", 4),
			DocTimeout: getEnvAsDuration("BATCH_DOC_TIMEOUT", 3*time.Minute),
		},
		Catalog: CatalogConfig{
			PackagePath:    getEnv("PACKAGE_CATALOG_PATH", ""),
			TreatmentsPath: getEnv("TREATMENTS_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	if c.OCR.Endpoint != "" && c.OCR.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OCR_API_KEY is required when OCR_ENDPOINT is set", ErrInvalidInput)
	}
	return nil
}
