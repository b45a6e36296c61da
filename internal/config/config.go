package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// ModelStoreKind selects where the trained model artifact is fetched from.
type ModelStoreKind string

const (
	ModelStoreLocal ModelStoreKind = "local"
	ModelStoreAzure ModelStoreKind = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// Cache settings
	RedisAddr string
	RedisDB   int
	CacheTTL  time.Duration

	// Model settings
	ModelStore       ModelStoreKind
	ModelPath        string
	ModelOptional    bool
	AzureAccountName string
	AzureAccountKey  string

	// Optional OCR-derived labels for the item detector
	OCRLabelsEnabled bool
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
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisDB:            int(parseIntOrDefault("REDIS_DB", 0)),
		CacheTTL:           parseDurationOrDefault("CACHE_TTL", time.Hour),
		ModelStore:         ModelStoreKind(getEnvOrDefault("MODEL_STORE", string(ModelStoreLocal))),
		ModelPath:          getEnvOrDefault("MODEL_PATH", "models/performative_ensemble.json"),
		ModelOptional:      parseBoolOrDefault("MODEL_OPTIONAL", true),
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
		OCRLabelsEnabled:   parseBoolOrDefault("OCR_LABELS_ENABLED", false),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.AnalysisTimeout)
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be > 0 (got %s)", cfg.CacheTTL)
	}
	switch cfg.ModelStore {
	case ModelStoreLocal, ModelStoreAzure:
	default:
		return nil, fmt.Errorf("invalid MODEL_STORE: %q", cfg.ModelStore)
	}
	if cfg.ModelStore == ModelStoreAzure && (cfg.AzureAccountName == "" || cfg.AzureAccountKey == "") {
		return nil, fmt.Errorf("MODEL_STORE=azure requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
