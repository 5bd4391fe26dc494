package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/streambridge/genai"
	"github.com/kbukum/streambridge/stream"
)

func TestDialect_Registration(t *testing.T) {
	d, err := genai.GetDialect(Name)
	if err != nil {
		t.Fatalf("GetDialect(%q) error: %v", Name, err)
	}
	if d.Name() != "ollama" {
		t.Errorf("Name() = %q, want ollama", d.Name())
	}
}

func TestDialect_Paths(t *testing.T) {
	d := Dialect{}
	if d.ChatPath() != "/api/chat" {
		t.Errorf("ChatPath() = %q", d.ChatPath())
	}
	if d.HealthPath() != "/api/tags" {
		t.Errorf("HealthPath() = %q", d.HealthPath())
	}
	if d.StreamFormat() != stream.FormatNDJSON {
		t.Errorf("StreamFormat() = %v, want NDJSON", d.StreamFormat())
	}
	if d.StopSentinel() != "" {
		t.Errorf("StopSentinel() = %q, want empty", d.StopSentinel())
	}
}

func TestDialect_BuildRequest(t *testing.T) {
	d := Dialect{}
	body, err := d.BuildRequest(genai.CompletionRequest{
		Model:        "llama3",
		SystemPrompt: "be brief",
		Messages:     []genai.Message{{Role: genai.RoleUser, Content: "hi"}},
		Temperature:  0.2,
		MaxTokens:    64,
		Stream:       true,
	})
	if err != nil {
		t.Fatalf("BuildRequest() error: %v", err)
	}

	req, ok := body.(chatRequest)
	if !ok {
		t.Fatalf("body is %T, want chatRequest", body)
	}
	if req.Model != "llama3" || !req.Stream {
		t.Errorf("model/stream = %q/%v", req.Model, req.Stream)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
		t.Errorf("messages = %+v, want system first", req.Messages)
	}
	if req.Options == nil || req.Options.Temperature != 0.2 || req.Options.NumPredict != 64 {
		t.Errorf("options = %+v, want temperature 0.2 num_predict 64", req.Options)
	}
}

func TestDialect_BuildRequest_NoOptions(t *testing.T) {
	d := Dialect{}
	body, _ := d.BuildRequest(genai.CompletionRequest{
		Model:    "llama3",
		Messages: []genai.Message{{Role: genai.RoleUser, Content: "hi"}},
	})
	req := body.(chatRequest)
	if req.Options != nil {
		t.Errorf("Options = %+v, want nil when sampling params unset", req.Options)
	}
}

func TestDialect_BuildRequest_FormatPassthrough(t *testing.T) {
	d := Dialect{}
	body, _ := d.BuildRequest(genai.CompletionRequest{
		Model:    "llama3",
		Messages: []genai.Message{{Role: genai.RoleUser, Content: "hi"}},
		Extra:    map[string]any{"format": "json"},
	})
	req := body.(chatRequest)
	if req.Format != "json" {
		t.Errorf("Format = %v, want json", req.Format)
	}
}

func TestDialect_ParseResponse(t *testing.T) {
	d := Dialect{}
	body := `{
		"model": "llama3",
		"message": {"role": "assistant", "content": "Hello there."},
		"done": true,
		"prompt_eval_count": 12,
		"eval_count": 8
	}`

	resp, err := d.ParseResponse([]byte(body))
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if resp.Content != "Hello there." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Model != "llama3" {
		t.Errorf("Model = %q", resp.Model)
	}
	if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 8 || resp.Usage.TotalTokens != 20 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
}

func TestDialect_ParseResponse_APIError(t *testing.T) {
	d := Dialect{}
	_, err := d.ParseResponse([]byte(`{"error": "model not found"}`))
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected model not found error, got %v", err)
	}
}

func TestDialect_DecodeChunk(t *testing.T) {
	d := Dialect{}

	chunk, err := d.DecodeChunk([]byte(`{"model":"llama3","message":{"content":"Hel"},"done":false}`))
	if err != nil {
		t.Fatalf("DecodeChunk() error: %v", err)
	}
	if chunk.Content != "Hel" || chunk.Done {
		t.Errorf("chunk = %+v, want content Hel done=false", chunk)
	}
	if chunk.Usage != nil {
		t.Errorf("Usage = %+v, want nil before final chunk", chunk.Usage)
	}

	final, err := d.DecodeChunk([]byte(`{"model":"llama3","message":{"content":""},"done":true,"prompt_eval_count":5,"eval_count":9}`))
	if err != nil {
		t.Fatalf("DecodeChunk() final error: %v", err)
	}
	if !final.Done {
		t.Error("final.Done = false, want true")
	}
	if final.Usage == nil || final.Usage.TotalTokens != 14 {
		t.Errorf("final.Usage = %+v, want total 14", final.Usage)
	}
}

func TestDialect_DecodeChunk_Errors(t *testing.T) {
	d := Dialect{}
	if _, err := d.DecodeChunk([]byte(`{"error":"out of memory"}`)); err == nil {
		t.Error("expected error for error payload")
	}
	if _, err := d.DecodeChunk([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestDialect_EndToEndStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("expected stream=true")
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`{"model":"llama3","message":{"content":"Str"},"done":false}`,
			`{"model":"llama3","message":{"content":"eam"},"done":false}`,
			`{"model":"llama3","message":{"content":""},"done":true,"prompt_eval_count":3,"eval_count":2}`,
		} {
			fmt.Fprintln(w, line)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c, err := genai.NewWithDialect(Dialect{}, genai.Config{
		BaseURL: srv.URL,
		Model:   "llama3",
	})
	if err != nil {
		t.Fatalf("NewWithDialect() error: %v", err)
	}

	events, sub, err := c.Stream(context.Background(), genai.CompletionRequest{
		Messages: []genai.Message{{Role: genai.RoleUser, Content: "go"}},
	})
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	text, err := genai.CollectText(events)
	if err != nil {
		t.Fatalf("CollectText() error: %v", err)
	}
	if text != "Stream" {
		t.Errorf("text = %q, want Stream", text)
	}
	if sub.State() != stream.StateCompleted {
		t.Errorf("State() = %v, want Completed", sub.State())
	}
}
