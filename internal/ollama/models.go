package ollama

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // system, user, or assistant
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request to the Ollama API
type ChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"` // num_predict, temperature, etc.
}

// ChatResponse represents a chat completion response (or stream chunk)
type ChatResponse struct {
	Model     string  `json:"model"`
	CreatedAt string  `json:"created_at,omitempty"`
	Message   Message `json:"message"`
	Done      bool    `json:"done"`
	Error     string  `json:"error,omitempty"`
}

// VersionResponse represents the /api/version response
type VersionResponse struct {
	Version string `json:"version"`
}
