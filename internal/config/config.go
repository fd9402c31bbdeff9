package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds server, storage and diagnostics settings
type Config struct {
	Host               string        `yaml:"host"`
	Port               string        `yaml:"port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ImageFetchTimeout  time.Duration `yaml:"image_fetch_timeout"`
	AnalysisTimeout    time.Duration `yaml:"analysis_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
	MaxImagePixels     int64         `yaml:"max_image_pixels"`

	// Diagnostics parameters
	KernelSize          int     `yaml:"kernel_size"`
	SaturationThreshold float64 `yaml:"saturation_threshold"`
	BorderThreshold     float64 `yaml:"border_threshold"`
	MaxWorkers          int     `yaml:"max_workers"`

	// Image source
	StorageBackend      string `yaml:"storage_backend"` // "http", "azure" or "local"
	LocalRoot           string `yaml:"local_root"`
	AzureStorageAccount string `yaml:"azure_storage_account"`
	AzureStorageKey     string `yaml:"-"`

	ReportCacheSize int    `yaml:"report_cache_size"`
	LogLevel        string `yaml:"log_level"`
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv builds the configuration from defaults, then the YAML file named
// by DIAGNOSTICS_CONFIG (if any), then environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("DIAGNOSTICS_CONFIG")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Host = getEnvOrDefault("HOST", cfg.Host)
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.RequestTimeout = parseDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.ImageFetchTimeout = parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", cfg.ImageFetchTimeout)
	cfg.AnalysisTimeout = parseDurationOrDefault("ANALYSIS_TIMEOUT", cfg.AnalysisTimeout)
	cfg.MaxRequestBodySize = parseIntOrDefault("MAX_REQUEST_BODY_SIZE", cfg.MaxRequestBodySize)
	cfg.MaxImagePixels = parseIntOrDefault("MAX_IMAGE_PIXELS", cfg.MaxImagePixels)
	cfg.KernelSize = int(parseIntOrDefault("KERNEL_SIZE", int64(cfg.KernelSize)))
	cfg.SaturationThreshold = parseFloatOrDefault("SATURATION_THRESHOLD", cfg.SaturationThreshold)
	cfg.BorderThreshold = parseFloatOrDefault("BORDER_THRESHOLD", cfg.BorderThreshold)
	cfg.MaxWorkers = int(parseIntOrDefault("MAX_WORKERS", int64(cfg.MaxWorkers)))
	cfg.StorageBackend = strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", cfg.StorageBackend))
	cfg.LocalRoot = getEnvOrDefault("LOCAL_ROOT", cfg.LocalRoot)
	cfg.AzureStorageAccount = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", cfg.AzureStorageAccount)
	cfg.AzureStorageKey = getEnvOrDefault("AZURE_STORAGE_KEY", cfg.AzureStorageKey)
	cfg.ReportCacheSize = int(parseIntOrDefault("REPORT_CACHE_SIZE", int64(cfg.ReportCacheSize)))
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Host:                "0.0.0.0",
		Port:                "8080",
		RequestTimeout:      30 * time.Second,
		ImageFetchTimeout:   15 * time.Second,
		AnalysisTimeout:     20 * time.Second,
		MaxRequestBodySize:  10 * 1024 * 1024, // 10MB
		MaxImagePixels:      40_000_000,
		KernelSize:          5,
		SaturationThreshold: 0.98,
		BorderThreshold:     1e-3,
		MaxWorkers:          0,
		StorageBackend:      "http",
		ReportCacheSize:     256,
		LogLevel:            "info",
	}
}

// Validate checks values that would break the server. Kernel size is left to
// the analyzer, which knows the raster it applies to.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be > 0 (got %d)", c.MaxImagePixels)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.AnalysisTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.AnalysisTimeout)
	}
	if c.ReportCacheSize <= 0 {
		return fmt.Errorf("REPORT_CACHE_SIZE must be > 0 (got %d)", c.ReportCacheSize)
	}
	switch c.StorageBackend {
	case "http", "azure":
	case "local":
		if strings.TrimSpace(c.LocalRoot) == "" {
			return fmt.Errorf("LOCAL_ROOT is required for the local storage backend")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND: %q", c.StorageBackend)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(contents, c); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
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

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
