package genai

import (
	"fmt"
	"sync"

	"github.com/kbukum/streambridge/stream"
)

// Dialect maps universal completion types to/from a specific provider's
// HTTP format.
//
// Each provider (Ollama, OpenAI, and so on) has its own Dialect
// implementation that handles the provider-specific request/response
// structure and stream framing. Implementations live in driver
// sub-packages (genai/ollama, genai/openai) or in project code.
//
// Register dialects at startup using [RegisterDialect], or pass one
// directly to [NewWithDialect].
type Dialect interface {
	// Name returns the dialect identifier (e.g., "ollama", "openai").
	Name() string

	// ChatPath returns the API endpoint path for chat completion.
	ChatPath() string

	// HealthPath returns the health-check endpoint path. Empty means no
	// health endpoint.
	HealthPath() string

	// BuildRequest maps a universal CompletionRequest to the provider's
	// JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse maps the provider's JSON response body to a universal
	// CompletionResponse.
	ParseResponse(body []byte) (*CompletionResponse, error)

	// StreamFormat returns how this provider frames streaming data.
	StreamFormat() stream.Format

	// DecodeChunk maps one raw stream chunk to a universal CompletionChunk.
	DecodeChunk(data []byte) (*CompletionChunk, error)

	// StopSentinel returns the raw chunk value that terminates the stream
	// without being decoded (e.g., "[DONE]"). Empty means none.
	StopSentinel() string
}

// --- Dialect registry ---

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry. Typically called
// from init() in dialect driver packages, so that importing the driver
// registers the dialect as a side effect:
//
//	import _ "github.com/kbukum/streambridge/genai/ollama"
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name from the global registry.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("genai: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	return names
}
