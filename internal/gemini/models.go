package gemini

// Message is a provider-neutral chat message mapped onto Gemini contents
type Message struct {
	Role    string // user or assistant (mapped to "model")
	Content string
}

// ChatRequest is the provider-neutral request shape
type ChatRequest struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// ChatResponse is the provider-neutral response shape
type ChatResponse struct {
	Model string
	Text  string
}

// StreamEvent is one chunk of a streamed response
type StreamEvent struct {
	Model    string
	Text     string
	Done     bool
	ErrorMsg string
}

// Wire types for the generativelanguage API

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (r *generateContentResponse) text() string {
	var out string
	for _, c := range r.Candidates {
		for _, p := range c.Content.Parts {
			out += p.Text
		}
	}
	return out
}
