package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/prosecheck/prosecheck/internal/claude"
	"github.com/prosecheck/prosecheck/internal/config"
	"github.com/prosecheck/prosecheck/internal/gemini"
	"github.com/prosecheck/prosecheck/internal/ollama"
)

// waitLimiter blocks until the provider's rate limiter admits the request.
func waitLimiter(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// ollamaAdapter adapts the Ollama client to the Client interface
type ollamaAdapter struct {
	client  *ollama.Client
	config  *config.Config
	limiter *rate.Limiter
}

func newOllamaAdapter(client *ollama.Client, cfg *config.Config, limiter *rate.Limiter) *ollamaAdapter {
	return &ollamaAdapter{client: client, config: cfg, limiter: limiter}
}

func (a *ollamaAdapter) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	resp, err := a.client.GenerateChat(ctx, a.toOllamaRequest(req))
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Done:    true,
	}, nil
}

func (a *ollamaAdapter) GenerateChatStream(ctx context.Context, req ChatRequest) (<-chan ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	upstream, err := a.client.GenerateChatStream(ctx, a.toOllamaRequest(req))
	if err != nil {
		return nil, err
	}

	out := make(chan ChatResponse)
	go func() {
		defer close(out)
		for chunk := range upstream {
			out <- ChatResponse{
				Content: chunk.Message.Content,
				Model:   chunk.Model,
				Done:    chunk.Done,
				Error:   chunk.Error,
			}
		}
	}()
	return out, nil
}

func (a *ollamaAdapter) toOllamaRequest(req ChatRequest) ollama.ChatRequest {
	messages := make([]ollama.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, ollama.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, ollama.Message{Role: m.Role, Content: m.Content})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.config.Ollama.MaxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = a.config.Ollama.Temperature
	}

	return ollama.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Options: map[string]any{
			"num_predict": maxTokens,
			"temperature": temperature,
		},
	}
}

// claudeAdapter adapts the Claude client to the Client interface
type claudeAdapter struct {
	client  *claude.Client
	config  *config.Config
	limiter *rate.Limiter
}

func newClaudeAdapter(client *claude.Client, cfg *config.Config, limiter *rate.Limiter) *claudeAdapter {
	return &claudeAdapter{client: client, config: cfg, limiter: limiter}
}

func (a *claudeAdapter) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	resp, err := a.client.GenerateChat(ctx, a.toClaudeRequest(req))
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Content: resp.Text(),
		Model:   resp.Model,
		Done:    true,
	}, nil
}

func (a *claudeAdapter) GenerateChatStream(ctx context.Context, req ChatRequest) (<-chan ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	upstream, err := a.client.GenerateChatStream(ctx, a.toClaudeRequest(req))
	if err != nil {
		return nil, err
	}

	out := make(chan ChatResponse)
	go func() {
		defer close(out)
		for chunk := range upstream {
			out <- ChatResponse{
				Content: chunk.Text,
				Model:   chunk.Model,
				Done:    chunk.Done,
				Error:   chunk.ErrorMsg,
			}
		}
	}()
	return out, nil
}

func (a *claudeAdapter) toClaudeRequest(req ChatRequest) claude.ChatRequest {
	messages := make([]claude.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, claude.Message{Role: m.Role, Content: m.Content})
	}

	var temperature *float64
	if req.Temperature > 0 {
		temperature = &req.Temperature
	}

	return claude.ChatRequest{
		Model:       req.Model,
		System:      req.System,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	}
}

// geminiAdapter adapts the Gemini client to the Client interface
type geminiAdapter struct {
	client  *gemini.Client
	config  *config.Config
	limiter *rate.Limiter
}

func newGeminiAdapter(client *gemini.Client, cfg *config.Config, limiter *rate.Limiter) *geminiAdapter {
	return &geminiAdapter{client: client, config: cfg, limiter: limiter}
}

func (a *geminiAdapter) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	resp, err := a.client.GenerateChat(ctx, a.toGeminiRequest(req))
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Content: resp.Text,
		Model:   resp.Model,
		Done:    true,
	}, nil
}

func (a *geminiAdapter) GenerateChatStream(ctx context.Context, req ChatRequest) (<-chan ChatResponse, error) {
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, err
	}

	upstream, err := a.client.GenerateChatStream(ctx, a.toGeminiRequest(req))
	if err != nil {
		return nil, err
	}

	out := make(chan ChatResponse)
	go func() {
		defer close(out)
		for chunk := range upstream {
			out <- ChatResponse{
				Content: chunk.Text,
				Model:   chunk.Model,
				Done:    chunk.Done,
				Error:   chunk.ErrorMsg,
			}
		}
	}()
	return out, nil
}

func (a *geminiAdapter) toGeminiRequest(req ChatRequest) gemini.ChatRequest {
	messages := make([]gemini.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, gemini.Message{Role: m.Role, Content: m.Content})
	}

	return gemini.ChatRequest{
		Model:       req.Model,
		System:      req.System,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}
