// Package ollama implements the genai Dialect for the Ollama native chat
// API (POST /api/chat, NDJSON streaming).
//
// Importing this package registers the "ollama" dialect:
//
//	import _ "github.com/kbukum/streambridge/genai/ollama"
package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/streambridge/genai"
	"github.com/kbukum/streambridge/stream"
)

// Name is the registered dialect identifier.
const Name = "ollama"

func init() {
	genai.RegisterDialect(Name, Dialect{})
}

// Dialect maps universal completion types to the Ollama native API.
type Dialect struct{}

// Name returns the dialect identifier.
func (Dialect) Name() string { return Name }

// ChatPath returns the chat completion endpoint.
func (Dialect) ChatPath() string { return "/api/chat" }

// HealthPath returns the model listing endpoint, which doubles as a
// liveness probe.
func (Dialect) HealthPath() string { return "/api/tags" }

// StreamFormat returns NDJSON: Ollama streams one JSON object per line.
func (Dialect) StreamFormat() stream.Format { return stream.FormatNDJSON }

// StopSentinel returns empty: Ollama marks the end with done=true in the
// final payload, not with a sentinel line.
func (Dialect) StopSentinel() string { return "" }

// BuildRequest maps a CompletionRequest to an Ollama chat request.
// Sampling parameters go in the options object; a "format" value in Extra
// (e.g., "json" or a JSON schema) is passed through for structured output.
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
	if req.Temperature != 0 || req.MaxTokens != 0 {
		out.Options = &chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}
	if f, ok := req.Extra["format"]; ok {
		out.Format = f
	}
	return out, nil
}

// ParseResponse maps an Ollama chat response to a CompletionResponse.
func (Dialect) ParseResponse(body []byte) (*genai.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama: %s", resp.Error)
	}
	return &genai.CompletionResponse{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Usage:   resp.usage(),
	}, nil
}

// DecodeChunk maps one NDJSON line to a CompletionChunk. The final line
// carries done=true and the token counts.
func (Dialect) DecodeChunk(data []byte) (*genai.CompletionChunk, error) {
	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("ollama: unmarshal chunk: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama: %s", resp.Error)
	}

	chunk := &genai.CompletionChunk{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Done:    resp.Done,
	}
	if resp.Done {
		u := resp.usage()
		chunk.Usage = &u
	}
	return chunk, nil
}

// --- Ollama API wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   any           `json:"format,omitempty"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
	Error           string      `json:"error,omitempty"`
}

func (r chatResponse) usage() genai.Usage {
	return genai.Usage{
		PromptTokens:     r.PromptEvalCount,
		CompletionTokens: r.EvalCount,
		TotalTokens:      r.PromptEvalCount + r.EvalCount,
	}
}
