// Package claude implements a client for the Anthropic Claude messages API.
package claude

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

// Client represents an Anthropic Claude API client
type Client struct {
	apiKey           string
	baseURL          string
	apiVersion       string
	defaultModel     string
	defaultMaxTokens int
	maxRetries       int
	httpClient       *http.Client
}

// NewClient creates a new Claude client from config
func NewClient(cfg config.ClaudeConfig) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2023-06-01"
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

// GenerateChat sends a non-streaming messages request
func (c *Client) GenerateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	c.applyDefaults(&req)
	req.Stream = false

	var resp ChatResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/v1/messages", req, &resp); err != nil {
		return nil, fmt.Errorf("generating chat completion: %w", err)
	}

	return &resp, nil
}

// GenerateChatStream sends a streaming messages request. Events arrive on
// the returned channel; an event with ErrorMsg set signals failure.
func (c *Client) GenerateChatStream(ctx context.Context, req ChatRequest) (<-chan StreamEvent, error) {
	c.applyDefaults(&req)
	req.Stream = true

	events := make(chan StreamEvent)
	streamCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(events)
		defer cancel()

		operation := func() error {
			return c.handleStreamingRequest(streamCtx, req, events)
		}

		err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)))
		if err != nil {
			select {
			case events <- StreamEvent{ErrorMsg: err.Error()}:
			case <-streamCtx.Done():
			}
		}
	}()

	return events, nil
}

func (c *Client) applyDefaults(req *ChatRequest) {
	if req.Model == "" {
		req.Model = c.defaultModel
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = c.defaultMaxTokens
	}
}

// handleStreamingRequest consumes the SSE stream from Claude
func (c *Client) handleStreamingRequest(ctx context.Context, req ChatRequest, events chan<- StreamEvent) error {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("marshaling request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading error response body: %w", err)
		}
		return c.handleErrorResponse(resp, respBody)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var model string

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "event:") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		var streamResp messageStreamResponse
		if err := json.Unmarshal([]byte(line), &streamResp); err != nil {
			loggy.Debug("skipping undecodable stream line", "error", err, "line", line)
			continue
		}

		if model == "" && streamResp.Message.Model != "" {
			model = streamResp.Message.Model
		}

		switch streamResp.Type {
		case "content_block_start", "content_block_delta":
			events <- StreamEvent{Model: model, Text: streamResp.Delta.Text}
		case "message_delta":
			if streamResp.Delta.StopReason != "" {
				events <- StreamEvent{Model: model, Done: true}
			}
		case "error":
			events <- StreamEvent{Model: model, ErrorMsg: streamResp.Error.Message}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}

	return nil
}

// makeRequest makes an HTTP request with exponential-backoff retries
func (c *Client) makeRequest(ctx context.Context, method, path string, body any, response any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		c.setHeaders(req)

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
			loggy.Debug("Claude API error response", "status", resp.Status, "body", string(respBody))
			return c.handleErrorResponse(resp, respBody)
		}

		if err := json.Unmarshal(respBody, response); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}

		return nil
	}

	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)))
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.apiVersion)
}

// handleErrorResponse parses an API error body into a structured error
func (c *Client) handleErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.ErrorDetails.Message == "" {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return &apiErr
}
