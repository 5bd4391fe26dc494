package genai

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// CompletionRequest is the universal input for all providers.
type CompletionRequest struct {
	// Model overrides the client's default model.
	Model string `json:"model,omitempty" yaml:"model"`
	// Messages is the conversation history.
	Messages []Message `json:"messages" yaml:"messages"`
	// SystemPrompt is prepended as a system message.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt"`
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature"`
	// MaxTokens limits the response length. 0 means provider default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens"`
	// Stream requests streaming mode. Set automatically by Client.OpenStream.
	Stream bool `json:"stream,omitempty" yaml:"stream"`
	// Extra holds provider-specific fields that don't fit the universal
	// schema. Dialects may inspect this for provider-specific features.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra"`
}

// AllMessages returns the conversation with the system prompt, if any,
// prepended as a system message.
func (r CompletionRequest) AllMessages() []Message {
	if r.SystemPrompt == "" {
		return r.Messages
	}
	msgs := make([]Message, 0, len(r.Messages)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: r.SystemPrompt})
	return append(msgs, r.Messages...)
}

// CompletionResponse is the universal output from a non-streaming completion.
type CompletionResponse struct {
	// Content is the generated text.
	Content string `json:"content"`
	// Model is the model that produced the response.
	Model string `json:"model"`
	// Usage reports token consumption.
	Usage Usage `json:"usage"`
}

// CompletionChunk is one decoded piece of a streamed completion. Chunks
// carry payload only; stream errors travel on the event envelope.
type CompletionChunk struct {
	// Content is the text fragment carried by this chunk.
	Content string `json:"content"`
	// Model is the model reported by the provider, when present.
	Model string `json:"model,omitempty"`
	// Done marks the provider's final payload.
	Done bool `json:"done"`
	// Usage reports token consumption. Some providers send it on the
	// final chunk only.
	Usage *Usage `json:"usage,omitempty"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
