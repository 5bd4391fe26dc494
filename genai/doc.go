// Package genai provides a config-driven generative-text client built on
// the streambridge HTTP and stream foundations.
//
// The client works with any provider (Ollama, OpenAI, and compatibles) via
// the Dialect pattern, similar to how database/sql works with driver
// packages.
//
// # Architecture
//
// The genai package provides:
//   - Universal types: [CompletionRequest], [CompletionResponse], [CompletionChunk], [Message], [Usage]
//   - [Dialect] interface: maps universal types to/from provider-specific HTTP format
//   - [Client]: composes the HTTP client + a Dialect into a complete provider client
//   - Dialect registry: [RegisterDialect] / [GetDialect] for config-driven dialect selection
//   - Convenience helpers: [Client.CompleteText], [Client.CompleteStructured], [CollectText]
//
// # Usage
//
// Import a dialect driver package for side-effect registration, then create
// a client:
//
//	import (
//	    "github.com/kbukum/streambridge/genai"
//	    _ "github.com/kbukum/streambridge/genai/ollama" // registers "ollama"
//	)
//
//	client, err := genai.New(genai.Config{
//	    Dialect: "ollama",
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3",
//	})
//
//	resp, err := client.Complete(ctx, genai.CompletionRequest{
//	    Messages: []genai.Message{{Role: genai.RoleUser, Content: "Hello!"}},
//	})
//
// # Streaming
//
// Streaming completions are cold sequences: [Client.OpenStream] performs no
// I/O, and the request is issued by the first Subscribe. [Client.Stream]
// opens and subscribes in one call:
//
//	events, sub, err := client.Stream(ctx, genai.CompletionRequest{
//	    Messages: []genai.Message{{Role: genai.RoleUser, Content: "Tell me a story."}},
//	})
//	if err != nil {
//	    return err
//	}
//	defer sub.Cancel()
//
//	for ev := range events {
//	    switch {
//	    case ev.IsError():
//	        return ev.Err
//	    case ev.IsDone():
//	        return nil
//	    default:
//	        fmt.Print(ev.Object.Content)
//	    }
//	}
//
// Streams are one connection per invocation and are never retried; the
// configured retry, circuit breaker, and rate limiter apply to
// non-streaming requests only.
//
// # Writing a Dialect
//
// Implement the [Dialect] interface and register it:
//
//	func init() {
//	    genai.RegisterDialect("my-provider", &MyDialect{})
//	}
package genai
