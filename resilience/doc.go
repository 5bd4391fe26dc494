// Package resilience provides fault-tolerance patterns for the HTTP client.
//
// This package includes:
//   - CircuitBreaker: Prevents cascading failures by failing fast
//   - Retry: Retries failed operations with exponential backoff
//   - RateLimiter: Controls request rate with token bucket algorithm
//
// The httpclient package applies these only to unary calls (Do and the typed
// REST helpers). Streaming calls hold one connection for their whole
// lifetime and are never retried or broken mid-stream; a failed stream
// surfaces a terminal error to the consumer instead.
//
// The patterns compose:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("http"))
//	rl := resilience.NewRateLimiter(resilience.DefaultRateLimiterConfig("http"))
//
//	err := cb.Execute(func() error {
//	    return rl.ExecuteWait(ctx, func() error {
//	        return httpClient.Do(req)
//	    })
//	})
package resilience
