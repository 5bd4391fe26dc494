// Package openai implements the genai Dialect for the OpenAI chat
// completions API (POST /v1/chat/completions, SSE streaming with a [DONE]
// sentinel). It also covers OpenAI-compatible servers such as OpenRouter,
// vLLM, and llama.cpp.
//
// Importing this package registers the "openai" dialect:
//
//	import _ "github.com/kbukum/streambridge/genai/openai"
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/streambridge/genai"
	"github.com/kbukum/streambridge/stream"
	"github.com/kbukum/streambridge/util"
)

// Name is the registered dialect identifier.
const Name = "openai"

func init() {
	genai.RegisterDialect(Name, Dialect{})
}

// Dialect maps universal completion types to the OpenAI chat API.
type Dialect struct{}

// Name returns the dialect identifier.
func (Dialect) Name() string { return Name }

// ChatPath returns the chat completion endpoint.
func (Dialect) ChatPath() string { return "/v1/chat/completions" }

// HealthPath returns the model listing endpoint.
func (Dialect) HealthPath() string { return "/v1/models" }

// StreamFormat returns SSE: OpenAI streams text/event-stream frames.
func (Dialect) StreamFormat() stream.Format { return stream.FormatSSE }

// StopSentinel returns the literal data payload that ends the stream.
func (Dialect) StopSentinel() string { return "[DONE]" }

// BuildRequest maps a CompletionRequest to an OpenAI chat request.
// Zero-valued sampling parameters are omitted so the provider's defaults
// apply, rather than sending an explicit zero.
func (Dialect) BuildRequest(req genai.CompletionRequest) (any, error) {
	msgs := make([]chatMessage, 0, len(req.Messages)+1)
	for _, m := range req.AllMessages() {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	out := chatRequest{
		Model:    req.Model,
		Messages: msgs,
		Stream:   req.Stream,
	}
	if req.Temperature != 0 {
		out.Temperature = util.Ptr(req.Temperature)
	}
	if req.MaxTokens != 0 {
		out.MaxTokens = util.Ptr(req.MaxTokens)
	}
	return out, nil
}

// ParseResponse maps an OpenAI chat response to a CompletionResponse.
func (Dialect) ParseResponse(body []byte) (*genai.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error.err()
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}

	out := &genai.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
	}
	if resp.Usage != nil {
		out.Usage = resp.Usage.toUsage()
	}
	return out, nil
}

// DecodeChunk maps one SSE data payload to a CompletionChunk. A non-null
// finish_reason marks the final content chunk; the [DONE] sentinel that
// follows is consumed by the stream layer and never reaches here.
func (Dialect) DecodeChunk(data []byte) (*genai.CompletionChunk, error) {
	var resp chunkResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("openai: unmarshal chunk: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error.err()
	}

	chunk := &genai.CompletionChunk{Model: resp.Model}
	if len(resp.Choices) > 0 {
		c := resp.Choices[0]
		chunk.Content = util.Deref(c.Delta.Content)
		chunk.Done = util.Deref(c.FinishReason) != ""
	}
	if resp.Usage != nil {
		u := resp.Usage.toUsage()
		chunk.Usage = &u
	}
	return chunk, nil
}

// --- OpenAI API wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Choices []choice  `json:"choices"`
	Usage   *usage    `json:"usage,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason *string     `json:"finish_reason"`
}

type chunkResponse struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
	Usage   *usage        `json:"usage,omitempty"`
	Error   *apiError     `json:"error,omitempty"`
}

type chunkChoice struct {
	Index        int     `json:"index"`
	Delta        delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

type delta struct {
	Role    *string `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u usage) toUsage() genai.Usage {
	return genai.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (e *apiError) err() error {
	if e.Type != "" {
		return fmt.Errorf("openai: %s (type=%s)", e.Message, e.Type)
	}
	return fmt.Errorf("openai: %s", e.Message)
}
