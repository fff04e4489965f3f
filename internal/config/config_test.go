package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.DefaultLLMProvider)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.Endpoint)
	assert.Equal(t, "gemma3", cfg.Ollama.Model)
	assert.Equal(t, 600*time.Second, cfg.Ollama.Timeout)
	assert.Equal(t, 3, cfg.Ollama.MaxRetries)

	assert.Empty(t, cfg.Claude.APIKey)
	assert.Equal(t, "https://api.anthropic.com", cfg.Claude.BaseURL)
	assert.Equal(t, "2023-06-01", cfg.Claude.APIVersion)

	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Equal(t, "v1beta", cfg.Gemini.APIVersion)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PROSECHECK_LLM_DEFAULT_PROVIDER", "claude")
	t.Setenv("PROSECHECK_CLAUDE_API_KEY", "test-key")
	t.Setenv("PROSECHECK_OLLAMA_MODEL", "llama3")
	t.Setenv("PROSECHECK_OLLAMA_TIMEOUT", "30s")
	t.Setenv("PROSECHECK_OLLAMA_MAX_RETRIES", "5")
	t.Setenv("PROSECHECK_OLLAMA_TEMPERATURE", "0.7")
	t.Setenv("PROSECHECK_LOG_LEVEL", "debug")
	t.Setenv("PROSECHECK_LOG_ADD_SOURCE", "true")

	cfg, err := LoadFromEnv(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.DefaultLLMProvider)
	assert.Equal(t, "test-key", cfg.Claude.APIKey)
	assert.Equal(t, "llama3", cfg.Ollama.Model)
	assert.Equal(t, 30*time.Second, cfg.Ollama.Timeout)
	assert.Equal(t, 5, cfg.Ollama.MaxRetries)
	assert.InDelta(t, 0.7, cfg.Ollama.Temperature, 1e-9)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.AddSource)
}

func TestLoadFromEnvDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PROSECHECK_OLLAMA_MODEL=mistral\n"), 0o644))

	// godotenv will not override variables already in the environment.
	os.Unsetenv("PROSECHECK_OLLAMA_MODEL")

	cfg, err := LoadFromEnv(dir)
	require.NoError(t, err)

	assert.Equal(t, "mistral", cfg.Ollama.Model)
	t.Cleanup(func() { os.Unsetenv("PROSECHECK_OLLAMA_MODEL") })
}

func TestGlobalConfig(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	Set(nil)
	_, err := Get()
	assert.Error(t, err)

	want := &Config{DefaultLLMProvider: "ollama"}
	Set(want)

	got, err := Get()
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("unknown"))
}
