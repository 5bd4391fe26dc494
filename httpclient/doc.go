// Package httpclient provides a configurable HTTP client with built-in
// authentication, TLS, resilience (retry, circuit breaker, rate limiting),
// and streaming support.
//
// The Client handles all HTTP protocol concerns. Do returns a fully-read
// response; DoStream hands back the live body for chunked responses, with
// error statuses classified into typed errors before any streaming starts.
// The sse subpackage provides a Server-Sent Events reader for
// text/event-stream bodies.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/models",
//	})
//
// # With Resilience
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Retry:   httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("my-api"),
//	})
//
// Resilience applies to Do only. A streaming request is one connection per
// invocation and is never retried.
package httpclient
