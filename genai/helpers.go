package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/streambridge/stream"
)

// CompleteText sends system + user prompts and returns the text response.
func (c *Client) CompleteText(ctx context.Context, system, user string) (string, error) {
	resp, err := c.Complete(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// CompleteStructured sends a prompt expecting JSON and unmarshals the
// response into result. It appends JSON formatting instructions to the
// system prompt and tolerates markdown-fenced output.
func (c *Client) CompleteStructured(ctx context.Context, system, user string, result any) error {
	system += "\n\nIMPORTANT: Respond with ONLY the JSON object. " +
		"No markdown, no code blocks, no explanations. " +
		"Start with { and end with }."

	resp, err := c.Complete(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
	})
	if err != nil {
		return err
	}

	content := extractJSON(resp.Content)
	if err := json.Unmarshal([]byte(content), result); err != nil {
		return fmt.Errorf("genai: unmarshal structured response: %w", err)
	}
	return nil
}

// CollectText drains a stream channel, concatenating chunk content until
// the terminal event. It returns the text collected so far together with
// the terminal error, if any. A channel closed by cancellation returns the
// partial text and no error.
func CollectText(ch <-chan stream.Event[*CompletionChunk]) (string, error) {
	var sb strings.Builder
	for ev := range ch {
		switch {
		case ev.IsError():
			return sb.String(), ev.Err
		case ev.IsDone():
			return sb.String(), nil
		default:
			sb.WriteString(ev.Object.Content)
		}
	}
	return sb.String(), nil
}

// extractJSON pulls a JSON object from model output that may contain
// markdown fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s[3:], "\n"); idx >= 0 {
			s = s[3+idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
