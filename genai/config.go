package genai

import (
	"time"

	"github.com/kbukum/streambridge/httpclient"
	"github.com/kbukum/streambridge/resilience"
	"github.com/kbukum/streambridge/validation"
)

const defaultTimeout = 120 * time.Second

// Config holds configuration for creating a generative-text client.
// It is provider-agnostic: the Dialect field selects the provider mapping.
type Config struct {
	// Name identifies this client instance (e.g., "primary-llm").
	// Defaults to "<dialect>-llm".
	Name string `yaml:"name" mapstructure:"name"`

	// Dialect selects the provider mapping (e.g., "ollama", "openai").
	// Must match a dialect registered via RegisterDialect.
	Dialect string `yaml:"dialect" mapstructure:"dialect" validate:"required"`

	// BaseURL is the provider's API base URL (e.g., "http://localhost:11434").
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Model is the default model (e.g., "gpt-4o", "llama3").
	Model string `yaml:"model" mapstructure:"model"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens is the default maximum response length. 0 means provider
	// default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`

	// Timeout bounds non-streaming requests. Defaults to 120s. Streaming
	// requests are exempt: they end on EOF, error, or cancellation.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RequestIDHeader names the header stamped with a fresh UUID on every
	// request. Defaults to "X-Request-ID".
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header"`

	// Auth configures authentication (bearer token, API key).
	Auth *httpclient.AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures transport security.
	TLS *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures retries for non-streaming requests. Streams are
	// never retried: one connection per invocation.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// CircuitBreaker protects non-streaming requests.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter throttles non-streaming requests.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" && c.Dialect != "" {
		c.Name = c.Dialect + "-llm"
	}
	if c.RequestIDHeader == "" {
		c.RequestIDHeader = "X-Request-ID"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
