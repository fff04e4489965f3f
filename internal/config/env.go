package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables.
// Provider credentials and tuning come from the process environment,
// optionally seeded from a .env file in the prosecheck config directory
// (~/.prosecheck/.env), the path in ENV_FILE_PATH, or the current directory.
func LoadFromEnv(configDir string) (*Config, error) {
	cfg := New()

	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".prosecheck")
	}

	defaultLogPath := filepath.Join(configDir, "prosecheck.log")

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try the config directory first, then the current directory
		if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil {
			_ = godotenv.Load() // Ignore errors if file doesn't exist
		}
	}

	cfg.DefaultLLMProvider = getEnvString("PROSECHECK_LLM_DEFAULT_PROVIDER", "ollama")

	cfg.Ollama = OllamaConfig{
		Endpoint:          getEnvString("PROSECHECK_OLLAMA_ENDPOINT", "http://localhost:11434"),
		Model:             getEnvString("PROSECHECK_OLLAMA_MODEL", "gemma3"),
		Timeout:           getEnvDuration("PROSECHECK_OLLAMA_TIMEOUT", 600*time.Second),
		MaxRetries:        getEnvInt("PROSECHECK_OLLAMA_MAX_RETRIES", 3),
		MaxTokens:         getEnvInt("PROSECHECK_OLLAMA_MAX_TOKENS", 2048),
		Temperature:       getEnvFloat("PROSECHECK_OLLAMA_TEMPERATURE", 0.2),
		RequestsPerMinute: getEnvInt("PROSECHECK_OLLAMA_REQUESTS_PER_MINUTE", 0),
		BurstLimit:        getEnvInt("PROSECHECK_OLLAMA_BURST_LIMIT", 1),
	}

	cfg.Claude = ClaudeConfig{
		APIKey:            getEnvString("PROSECHECK_CLAUDE_API_KEY", ""),
		BaseURL:           getEnvString("PROSECHECK_CLAUDE_BASE_URL", "https://api.anthropic.com"),
		APIVersion:        getEnvString("PROSECHECK_CLAUDE_API_VERSION", "2023-06-01"),
		Model:             getEnvString("PROSECHECK_CLAUDE_MODEL", "claude-3-7-sonnet-20250219"),
		Timeout:           getEnvDuration("PROSECHECK_CLAUDE_TIMEOUT", 120*time.Second),
		MaxRetries:        getEnvInt("PROSECHECK_CLAUDE_MAX_RETRIES", 3),
		MaxTokens:         getEnvInt("PROSECHECK_CLAUDE_MAX_TOKENS", 4096),
		Temperature:       getEnvFloat("PROSECHECK_CLAUDE_TEMPERATURE", 0.1),
		RequestsPerMinute: getEnvInt("PROSECHECK_CLAUDE_REQUESTS_PER_MINUTE", 50),
		BurstLimit:        getEnvInt("PROSECHECK_CLAUDE_BURST_LIMIT", 5),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:            getEnvString("PROSECHECK_GEMINI_API_KEY", ""),
		BaseURL:           getEnvString("PROSECHECK_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		APIVersion:        getEnvString("PROSECHECK_GEMINI_API_VERSION", "v1beta"),
		Model:             getEnvString("PROSECHECK_GEMINI_MODEL", "gemini-2.5-pro"),
		Timeout:           getEnvDuration("PROSECHECK_GEMINI_TIMEOUT", 120*time.Second),
		MaxRetries:        getEnvInt("PROSECHECK_GEMINI_MAX_RETRIES", 3),
		MaxTokens:         getEnvInt("PROSECHECK_GEMINI_MAX_TOKENS", 4096),
		Temperature:       getEnvFloat("PROSECHECK_GEMINI_TEMPERATURE", 0.1),
		RequestsPerMinute: getEnvInt("PROSECHECK_GEMINI_REQUESTS_PER_MINUTE", 60),
		BurstLimit:        getEnvInt("PROSECHECK_GEMINI_BURST_LIMIT", 5),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnvString("PROSECHECK_LOG_LEVEL", "info"),
		Format:     getEnvString("PROSECHECK_LOG_FORMAT", "text"),
		Output:     getEnvString("PROSECHECK_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("PROSECHECK_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("PROSECHECK_LOG_TIME_FORMAT", time.RFC3339),
	}

	return cfg, nil
}
