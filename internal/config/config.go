// Package config holds the environment-driven application configuration:
// which LLM providers are available, how they are tuned, and how logging
// behaves. Profile files are handled separately by the profile package.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance.
// If the configuration has not been initialized, it will return an error.
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	DefaultLLMProvider string // Which provider to use by default (ollama, claude, or gemini)
	Ollama             OllamaConfig
	Claude             ClaudeConfig
	Gemini             GeminiConfig
	Logging            LoggingConfig
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// OllamaConfig holds configuration specific to the Ollama client
type OllamaConfig struct {
	Endpoint string // Ollama API endpoint URL
	Model    string // Default model to use

	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	MaxTokens   int     // Max tokens to generate for responses
	Temperature float64 // Default temperature for generation

	RequestsPerMinute int // Rate limiting
	BurstLimit        int // Rate limiting
}

// ClaudeConfig holds Claude API configuration
type ClaudeConfig struct {
	APIKey     string // Claude API key
	BaseURL    string // Claude API base URL
	APIVersion string // API version to use
	Model      string // Claude model to use

	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	MaxTokens   int     // Max tokens to generate for Claude responses
	Temperature float64 // Default temperature for Claude

	RequestsPerMinute int // Rate limiting
	BurstLimit        int // Rate limiting
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey     string // Gemini API key
	BaseURL    string // Gemini API base URL
	APIVersion string // API version (v1 or v1beta)
	Model      string // Gemini model to use

	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	MaxTokens   int     // Max tokens to generate
	Temperature float64 // Default temperature

	RequestsPerMinute int // Rate limiting
	BurstLimit        int // Rate limiting
}

// New returns a Config with zero values
func New() *Config {
	return &Config{}
}

// ParseLogLevel converts a string log level to slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat returns a float64 from the environment variable
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
