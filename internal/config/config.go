package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every external setting the pipeline needs. It is loaded once
// in main and passed into the container; no package reads the environment on
// its own afterwards.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ExtractionTimeout  time.Duration
	UploadTimeout      time.Duration
	MaxRequestBodySize int64

	// OCR/LLM provider (OpenAI-compatible chat completions)
	GroqAPIKey    string
	GroqAPIURL    string
	GroqModel     string
	GroqMaxTokens int

	// Extraction backend: "remote" or "local" (tesseract)
	ExtractionBackend string

	// Blob storage backend: "http", "s3" or "azure"
	StorageBackend string
	StorageBucket  string

	// http backend (Supabase-style object storage)
	StorageBaseURL string
	StorageAPIKey  string

	// s3 backend (also covers R2 via a custom endpoint)
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3BaseURL   string

	// azure backend
	AzureAccountName string
	AzureAccountKey  string

	// Ingredient score table
	ScoreDBPath string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		ExtractionTimeout:  parseDurationOrDefault("EXTRACTION_TIMEOUT", 45*time.Second),
		UploadTimeout:      parseDurationOrDefault("UPLOAD_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		GroqAPIKey:    firstEnv("GROQ_API_KEY", "groq"),
		GroqAPIURL:    getEnvOrDefault("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:     getEnvOrDefault("GROQ_MODEL", "llama3-70b-8192"),
		GroqMaxTokens: int(parseIntOrDefault("GROQ_MAX_TOKENS", 1024)),

		ExtractionBackend: getEnvOrDefault("EXTRACTION_BACKEND", "remote"),

		StorageBackend: getEnvOrDefault("STORAGE_BACKEND", "http"),
		StorageBucket:  getEnvOrDefault("STORAGE_BUCKET", "product-images"),
		StorageBaseURL: os.Getenv("STORAGE_BASE_URL"),
		StorageAPIKey:  os.Getenv("STORAGE_API_KEY"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3BaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),

		AzureAccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),

		ScoreDBPath: getEnvOrDefault("SCORE_DB_PATH", "ingredient_scores.db"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ExtractionTimeout <= 0 || cfg.UploadTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, extraction=%s, upload=%s)",
			cfg.RequestTimeout, cfg.ExtractionTimeout, cfg.UploadTimeout)
	}
	switch cfg.StorageBackend {
	case "http", "s3", "azure":
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", cfg.StorageBackend)
	}
	switch cfg.ExtractionBackend {
	case "remote", "local":
	default:
		return nil, fmt.Errorf("invalid EXTRACTION_BACKEND: %q", cfg.ExtractionBackend)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among the given keys. The
// provider key has historically been deployed under both capitalizations.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
