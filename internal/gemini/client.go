// Package gemini implements a client for the Google generativelanguage API.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/prosecheck/prosecheck/internal/config"
	"github.com/prosecheck/prosecheck/internal/loggy"
)

// Client represents a Gemini API client
type Client struct {
	apiKey           string
	baseURL          string
	apiVersion       string
	defaultModel     string
	defaultMaxTokens int
	maxRetries       int
	httpClient       *http.Client
}

// NewClient creates a new Gemini client from config
func NewClient(cfg config.GeminiConfig) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &Client{
		apiKey:           cfg.APIKey,
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		apiVersion:       apiVersion,
		defaultModel:     cfg.Model,
		defaultMaxTokens: maxTokens,
		maxRetries:       cfg.MaxRetries,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
	}
}

// GenerateChat sends a non-streaming generateContent request
func (c *Client) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s", c.baseURL, c.apiVersion, model, c.apiKey)

	var resp generateContentResponse
	if err := c.makeRequest(ctx, url, c.toWireRequest(req), &resp); err != nil {
		return nil, fmt.Errorf("generating chat completion: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("gemini API error (%s): %s", resp.Error.Status, resp.Error.Message)
	}

	return &ChatResponse{Model: model, Text: resp.text()}, nil
}

// GenerateChatStream sends a streaming generateContent request using SSE
func (c *Client) GenerateChatStream(ctx context.Context, req ChatRequest) (<-chan StreamEvent, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	url := fmt.Sprintf("%s/%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.baseURL, c.apiVersion, model, c.apiKey)

	body, err := json.Marshal(c.toWireRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	events := make(chan StreamEvent)
	go func() {
		defer close(events)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			events <- StreamEvent{ErrorMsg: fmt.Sprintf("HTTP request failed: %v", err)}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			events <- StreamEvent{ErrorMsg: fmt.Sprintf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))}
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))

			var chunk generateContentResponse
			if err := json.Unmarshal([]byte(line), &chunk); err != nil {
				loggy.Debug("skipping undecodable stream line", "error", err, "line", line)
				continue
			}

			events <- StreamEvent{Model: model, Text: chunk.text()}
		}

		if err := scanner.Err(); err != nil {
			events <- StreamEvent{ErrorMsg: fmt.Sprintf("reading stream: %v", err)}
			return
		}

		events <- StreamEvent{Model: model, Done: true}
	}()

	return events, nil
}

func (c *Client) toWireRequest(req ChatRequest) generateContentRequest {
	wire := generateContentRequest{
		GenerationConfig: &generationConfig{
			MaxOutputTokens: c.defaultMaxTokens,
		},
	}
	if req.MaxTokens > 0 {
		wire.GenerationConfig.MaxOutputTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		wire.GenerationConfig.Temperature = req.Temperature
	}
	if req.System != "" {
		wire.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}

	for _, m := range req.Messages {
		role := m.Role
		if role == "assistant" {
			role = "model"
		}
		wire.Contents = append(wire.Contents, content{
			Role:  role,
			Parts: []part{{Text: m.Content}},
		})
	}

	return wire
}

// makeRequest makes an HTTP POST with exponential-backoff retries
func (c *Client) makeRequest(ctx context.Context, url string, body any, response any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			loggy.Debug("Gemini API error response", "status", resp.Status, "body", string(respBody))
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}

		if err := json.Unmarshal(respBody, response); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}

		return nil
	}

	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)))
}
