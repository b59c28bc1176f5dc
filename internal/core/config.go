package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds process-wide configuration, loaded from the environment.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	News     NewsConfig     `json:"news"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// NewsConfig contains settings for the news intelligence feature.
type NewsConfig struct {
	Enabled       bool    `json:"enabled"`
	SourcesPath   string  `json:"sources_path"`
	RefreshCron   string  `json:"refresh_cron"`
	MinRelevance  float64 `json:"min_relevance"`
	MaxPerSource  int     `json:"max_per_source"`
	ProbeTimeout  int     `json:"probe_timeout_seconds"`
	ProbeWorkers  int     `json:"probe_workers"`
	ValidateLimit int     `json:"validate_limit"`
}

// LoadConfig reads configuration from environment variables, applying defaults.
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("NEWS_PORT", 8000),
			Host: getEnvOrDefault("NEWS_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Path: getEnvOrDefault("NEWS_DB_PATH", "./ai_news.db"),
		},
		News: NewsConfig{
			Enabled:       getEnvAsBool("NEWS_ENABLE_REFRESH", true),
			SourcesPath:   getEnvOrDefault("NEWS_SOURCES_PATH", "./sources.yaml"),
			RefreshCron:   getEnvOrDefault("NEWS_REFRESH_CRON", "0 2 * * *"),
			MinRelevance:  getEnvAsFloat("NEWS_MIN_RELEVANCE", 0.3),
			MaxPerSource:  getEnvAsInt("NEWS_MAX_PER_SOURCE", 20),
			ProbeTimeout:  getEnvAsInt("NEWS_PROBE_TIMEOUT", 10),
			ProbeWorkers:  getEnvAsInt("NEWS_PROBE_WORKERS", 5),
			ValidateLimit: getEnvAsInt("NEWS_VALIDATE_LIMIT", 50),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.News.MinRelevance < 0 || c.News.MinRelevance > 1 {
		return fmt.Errorf("min relevance must be in [0,1], got %f", c.News.MinRelevance)
	}

	if c.News.ProbeWorkers < 1 {
		return fmt.Errorf("probe workers must be at least 1, got %d", c.News.ProbeWorkers)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
