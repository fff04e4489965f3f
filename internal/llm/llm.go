// Package llm abstracts over the supported model providers behind a single
// chat interface, with per-provider rate limiting.
package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/prosecheck/prosecheck/internal/claude"
	"github.com/prosecheck/prosecheck/internal/config"
	"github.com/prosecheck/prosecheck/internal/gemini"
	"github.com/prosecheck/prosecheck/internal/loggy"
	"github.com/prosecheck/prosecheck/internal/ollama"
)

// Message represents a chat message with role and content
type Message struct {
	Role    string `json:"role"` // user, assistant, or system
	Content string `json:"content"`
}

// ChatRequest represents a generic chat request to any provider
type ChatRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// ChatResponse represents a response (or stream chunk) from a chat request
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}

// Client defines the interface for LLM clients
type Client interface {
	// GenerateChat sends a non-streaming chat request
	GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// GenerateChatStream sends a streaming chat request. Chunks arrive on
	// the returned channel in order; a chunk with Error set signals failure.
	GenerateChatStream(ctx context.Context, req ChatRequest) (<-chan ChatResponse, error)
}

// Provider identifies an LLM backend
type Provider string

const (
	// Ollama provider
	Ollama Provider = "ollama"
	// Claude provider
	Claude Provider = "claude"
	// Gemini provider
	Gemini Provider = "gemini"
)

// SplitModel splits a "provider/model" identifier. A bare model name
// returns an empty provider, meaning the configured default applies.
func SplitModel(model string) (Provider, string) {
	if prefix, rest, ok := strings.Cut(model, "/"); ok {
		switch Provider(prefix) {
		case Ollama, Claude, Gemini:
			return Provider(prefix), rest
		}
	}
	return "", model
}

// Factory creates and returns LLM clients
type Factory struct {
	config *config.Config
	ollama *ollama.Client
	claude *claude.Client
	gemini *gemini.Client
	logger *loggy.Logger

	ollamaLimiter *rate.Limiter
	claudeLimiter *rate.Limiter
	geminiLimiter *rate.Limiter
}

// newLimiter creates a rate limiter from RPM and burst values
func newLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	r := rate.Limit(float64(rpm) / 60.0)
	b := burst
	if b <= 0 {
		b = 1
	}
	return rate.NewLimiter(r, b)
}

// NewFactory creates a new LLM client factory. A provider is initialized
// only when its configuration makes it reachable.
func NewFactory(cfg *config.Config, logger *loggy.Logger) *Factory {
	f := &Factory{
		config: cfg,
		logger: logger,
	}

	if cfg.Ollama.Endpoint != "" {
		f.ollama = ollama.NewClient(cfg.Ollama)
		f.ollamaLimiter = newLimiter(cfg.Ollama.RequestsPerMinute, cfg.Ollama.BurstLimit)
		logger.Debug("initialized Ollama client", "endpoint", cfg.Ollama.Endpoint)
	}

	if cfg.Claude.APIKey != "" {
		f.claude = claude.NewClient(cfg.Claude)
		f.claudeLimiter = newLimiter(cfg.Claude.RequestsPerMinute, cfg.Claude.BurstLimit)
		logger.Debug("initialized Claude client", "base_url", cfg.Claude.BaseURL, "model", cfg.Claude.Model)
	}

	if cfg.Gemini.APIKey != "" {
		f.gemini = gemini.NewClient(cfg.Gemini)
		f.geminiLimiter = newLimiter(cfg.Gemini.RequestsPerMinute, cfg.Gemini.BurstLimit)
		logger.Debug("initialized Gemini client", "base_url", cfg.Gemini.BaseURL, "model", cfg.Gemini.Model)
	}

	return f
}

// GetClient returns an LLM client for the given provider
func (f *Factory) GetClient(provider Provider) (Client, error) {
	switch provider {
	case Ollama:
		if f.ollama == nil {
			return nil, fmt.Errorf("Ollama client not initialized - check configuration")
		}
		return newOllamaAdapter(f.ollama, f.config, f.ollamaLimiter), nil

	case Claude:
		if f.claude == nil {
			return nil, fmt.Errorf("Claude client not initialized - check configuration")
		}
		return newClaudeAdapter(f.claude, f.config, f.claudeLimiter), nil

	case Gemini:
		if f.gemini == nil {
			return nil, fmt.Errorf("Gemini client not initialized - check configuration")
		}
		return newGeminiAdapter(f.gemini, f.config, f.geminiLimiter), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// ClientFor resolves a model identifier of the form "provider/model" (or a
// bare model name, routed to the default provider) to a client and the bare
// model name to request. An empty identifier selects the default provider's
// configured model.
func (f *Factory) ClientFor(model string) (Client, string, error) {
	provider, bare := SplitModel(model)
	if provider == "" {
		provider = Provider(f.config.DefaultLLMProvider)
	}

	client, err := f.GetClient(provider)
	if err != nil {
		return nil, "", fmt.Errorf("resolving model %q: %w", model, err)
	}

	return client, bare, nil
}
