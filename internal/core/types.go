package core

// ChatRequest is the chat completion request sent upstream
type ChatRequest struct {
	Temperature *float64  `json:"temperature,omitempty"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream,omitempty"`
	// StreamOptions is only sent on streaming requests
	StreamOptions *StreamOptions `json:"stream_options,omitempty"`
}

// StreamOptions asks OpenAI-compatible APIs for a final usage event.
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// WithStreaming returns a shallow copy of the request with Stream set to true
// and the final usage event requested.
func (r *ChatRequest) WithStreaming() *ChatRequest {
	return &ChatRequest{
		Temperature:   r.Temperature,
		Model:         r.Model,
		Messages:      r.Messages,
		Stream:        true,
		StreamOptions: &StreamOptions{IncludeUsage: true},
	}
}

// Message represents a single message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents the chat completion response
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a single completion choice
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
	Index        int     `json:"index"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChunkFunc receives successive, non-overlapping pieces of a streamed response.
type ChunkFunc func(chunk string)
