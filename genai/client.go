package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kbukum/streambridge/httpclient"
	"github.com/kbukum/streambridge/logger"
	"github.com/kbukum/streambridge/observability"
	"github.com/kbukum/streambridge/stream"
)

// ErrNoDialect is returned when a client is created without a dialect.
var ErrNoDialect = errors.New("genai: dialect is required")

// Client is a config-driven generative-text client that works with any
// provider via the Dialect pattern.
//
// It composes the HTTP client (TLS, auth, resilience, request IDs) with a
// Dialect that handles provider-specific request/response mapping, and the
// stream package for live completions. Non-streaming requests honor the
// configured retry, circuit breaker, and rate limiter; streams are one
// connection per invocation and never retried.
type Client struct {
	http    *httpclient.Client
	dialect Dialect
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
}

// New creates a client from config using the global dialect registry.
// The config's Dialect field must match a registered dialect name.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()

	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return newClient(dialect, cfg)
}

// NewWithDialect creates a client with an explicit dialect instance.
// Use this when you don't want to rely on the global dialect registry.
func NewWithDialect(dialect Dialect, cfg Config) (*Client, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	if cfg.Dialect == "" {
		cfg.Dialect = dialect.Name()
	}
	cfg.ApplyDefaults()
	return newClient(dialect, cfg)
}

func newClient(dialect Dialect, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("genai: invalid config: %w", err)
	}

	hc, err := httpclient.New(httpclient.Config{
		Name:            cfg.Name,
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		RequestIDHeader: cfg.RequestIDHeader,
		Auth:            cfg.Auth,
		TLS:             cfg.TLS,
		Headers:         cfg.Headers,
		Retry:           cfg.Retry,
		CircuitBreaker:  cfg.CircuitBreaker,
		RateLimiter:     cfg.RateLimiter,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: create http client: %w", err)
	}

	return &Client{
		http:    hc,
		dialect: dialect,
		cfg:     cfg,
		log:     logger.WithComponent("genai").WithFields(logger.Fields(logger.FieldDialect, dialect.Name())),
	}, nil
}

// WithMetrics attaches stream and request metrics to the client. Returns
// the client for chaining.
func (c *Client) WithMetrics(m *observability.Metrics) *Client {
	c.metrics = m
	return c
}

// Name returns the client instance name.
func (c *Client) Name() string { return c.cfg.Name }

// Dialect returns the dialect used by this client.
func (c *Client) Dialect() Dialect { return c.dialect }

// HTTP returns the underlying HTTP client for advanced use cases.
func (c *Client) HTTP() *httpclient.Client { return c.http }

// Complete sends a completion request and returns the full response.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	c.applyDefaults(&req)

	oc := observability.NewOperationContext(c.dialect.Name(), req.Model, "complete", "", c.metrics)
	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanCompletion)

	resp, err := c.complete(ctx, req)
	if err != nil {
		oc.EndOperation(ctx, span, "error", err)
		c.log.Error("completion failed", logger.ErrorFields("complete", err))
		return nil, err
	}
	oc.EndOperation(ctx, span, "ok", nil)
	c.log.Debug("completion finished", logger.Fields(
		logger.FieldModel, resp.Model,
		logger.FieldDuration, oc.Duration().Milliseconds(),
	))
	return resp, nil
}

func (c *Client) complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	body, err := c.dialect.BuildRequest(req)
	if err != nil {
		return nil, fmt.Errorf("genai: build request: %w", err)
	}

	resp, err := httpclient.Post[json.RawMessage](c.http, ctx, c.dialect.ChatPath(), body)
	if err != nil {
		return nil, fmt.Errorf("genai: complete: %w", err)
	}

	out, err := c.dialect.ParseResponse(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("genai: parse response: %w", err)
	}
	return out, nil
}

// OpenStream prepares a cold streaming completion. No I/O happens until the
// returned sequence is subscribed; cancelling the subscription first means
// the request is never issued. Extra stream options are appended after the
// dialect's own framing options.
func (c *Client) OpenStream(req CompletionRequest, opts ...stream.Option[*CompletionChunk]) (*stream.Sequence[*CompletionChunk], *stream.Subscription, error) {
	c.applyDefaults(&req)
	req.Stream = true

	body, err := c.dialect.BuildRequest(req)
	if err != nil {
		return nil, nil, fmt.Errorf("genai: build stream request: %w", err)
	}

	streamOpts := []stream.Option[*CompletionChunk]{
		stream.WithFormat[*CompletionChunk](c.dialect.StreamFormat()),
		stream.WithDoneFunc(func(ch *CompletionChunk) bool { return ch != nil && ch.Done }),
	}
	if s := c.dialect.StopSentinel(); s != "" {
		streamOpts = append(streamOpts, stream.WithStopSentinel[*CompletionChunk](s))
	}
	streamOpts = append(streamOpts, opts...)

	seq, sub := stream.Open(c.http, httpclient.Request{
		Method: http.MethodPost,
		Path:   c.dialect.ChatPath(),
		Body:   body,
	}, c.dialect.DecodeChunk, streamOpts...)
	return seq, sub, nil
}

// Stream opens and subscribes a streaming completion in one call, with
// tracing and metrics wired to the stream's terminal outcome. The channel
// carries zero or more chunk events followed by exactly one terminal event,
// then closes. Use the subscription to cancel.
func (c *Client) Stream(ctx context.Context, req CompletionRequest) (<-chan stream.Event[*CompletionChunk], *stream.Subscription, error) {
	c.applyDefaults(&req)

	oc := observability.NewOperationContext(c.dialect.Name(), req.Model, "stream", "", c.metrics)
	sctx, span := oc.StartStreamSpan(ctx, observability.SpanStreamOpen)

	seq, sub, err := c.OpenStream(req, stream.WithObserver[*CompletionChunk](
		func(state stream.State, delivered int64, serr error) {
			oc.EndStream(sctx, span, state.String(), delivered, serr)
			c.log.Debug("stream ended", logger.Fields(
				logger.FieldStatus, state.String(),
				logger.FieldChunks, delivered,
				logger.FieldDuration, oc.Duration().Milliseconds(),
			))
		},
	))
	if err != nil {
		oc.EndStream(sctx, span, "failed", 0, err)
		return nil, nil, err
	}
	return seq.Subscribe(sctx), sub, nil
}

// IsAvailable checks whether the provider is reachable. It uses the
// dialect's health endpoint when one exists, otherwise the base URL root.
func (c *Client) IsAvailable(ctx context.Context) bool {
	path := c.dialect.HealthPath()
	if path == "" {
		path = "/"
	}
	resp, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: path})
	return err == nil && resp.IsSuccess()
}

// CheckHealth implements observability.HealthChecker.
func (c *Client) CheckHealth(ctx context.Context) observability.Health {
	if !c.IsAvailable(ctx) {
		return observability.Health{
			Name:    c.cfg.Name,
			Status:  observability.HealthStatusDown,
			Message: "provider unreachable",
			Details: map[string]string{"base_url": c.cfg.BaseURL},
		}
	}
	return observability.Health{
		Name:   c.cfg.Name,
		Status: observability.HealthStatusUp,
		Details: map[string]string{
			"dialect": c.dialect.Name(),
			"model":   c.cfg.Model,
		},
	}
}

// Close releases idle connections held by the underlying HTTP client.
// In-flight streams are unaffected; cancel their subscriptions instead.
func (c *Client) Close() error {
	c.http.Unwrap().CloseIdleConnections()
	return nil
}

func (c *Client) applyDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = c.cfg.Model
	}
	if req.Temperature == 0 {
		req.Temperature = c.cfg.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.cfg.MaxTokens
	}
}
