package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/kbukum/streambridge/httpclient"
	"github.com/kbukum/streambridge/httpclient/sse"
	"github.com/kbukum/streambridge/logger"
)

// Scanner buffer sizing for NDJSON framing: start at 64KB, allow single
// chunks up to 2MB unless overridden with WithMaxChunkSize.
const (
	initialChunkBuf = 64 * 1024
	defaultMaxChunk = 2 * 1024 * 1024
)

// Format selects how the response body is split into chunks.
type Format int

const (
	// FormatNDJSON treats each non-empty line as one chunk.
	FormatNDJSON Format = iota
	// FormatSSE parses text/event-stream frames; each event's data payload
	// is one chunk.
	FormatSSE
)

// DecodeFunc turns one raw chunk into a typed object. A panic inside the
// function is recovered and treated as a decode failure.
type DecodeFunc[T any] func(chunk []byte) (T, error)

// JSON returns a DecodeFunc that unmarshals each chunk into T.
func JSON[T any]() DecodeFunc[T] {
	return func(chunk []byte) (T, error) {
		var v T
		err := json.Unmarshal(chunk, &v)
		return v, err
	}
}

// Option customizes a sequence at Open time.
type Option[T any] func(*options[T])

type options[T any] struct {
	format       Format
	stopSentinel string
	doneFunc     func(T) bool
	maxChunkSize int
	observer     func(State, int64, error)
}

// WithFormat selects the framing mode. Default is FormatNDJSON.
func WithFormat[T any](f Format) Option[T] {
	return func(o *options[T]) { o.format = f }
}

// WithStopSentinel completes the stream when a raw chunk equals s (for
// example "[DONE]"). The sentinel itself is never decoded.
func WithStopSentinel[T any](s string) Option[T] {
	return func(o *options[T]) { o.stopSentinel = s }
}

// WithDoneFunc completes the stream after emitting an object for which f
// returns true. Used for provider done-flags carried inside the payload.
func WithDoneFunc[T any](f func(T) bool) Option[T] {
	return func(o *options[T]) { o.doneFunc = f }
}

// WithMaxChunkSize sets the largest single NDJSON chunk accepted, in bytes.
func WithMaxChunkSize[T any](n int) Option[T] {
	return func(o *options[T]) { o.maxChunkSize = n }
}

// WithObserver registers a hook called once per subscribed sequence, after
// the terminal state is reached and before the channel closes. It receives
// the final state, the number of objects delivered, and the terminal error,
// if any. A sequence that is never subscribed never invokes the hook.
func WithObserver[T any](f func(state State, delivered int64, err error)) Option[T] {
	return func(o *options[T]) { o.observer = f }
}

// Subscription controls a sequence's lifecycle from the consumer side.
type Subscription struct {
	state atomic.Int32

	mu       sync.Mutex
	cancelFn context.CancelFunc
}

// State returns the sequence's current lifecycle state.
func (sub *Subscription) State() State {
	return State(sub.state.Load())
}

// Cancel stops the stream. It is idempotent and safe to call from any
// goroutine, before or after Subscribe. Cancelling before Subscribe means the
// request is never issued. Cancelling a live stream aborts the HTTP request,
// releases the connection, and ends delivery without a terminal event.
// Cancelling a sequence that already reached a terminal state releases a
// producer still blocked on the final undelivered send; the sequence's state
// is unchanged.
func (sub *Subscription) Cancel() {
	// Before Subscribe: park directly in Cancelled, nothing to abort.
	if sub.state.CompareAndSwap(int32(StateIdle), int32(StateCancelled)) {
		return
	}
	sub.state.CompareAndSwap(int32(StateStreaming), int32(StateCancelled))
	// Fire the context even when the producer already won a terminal CAS:
	// it may still be parked on the unbuffered terminal send with the
	// consumer detaching, and without the context that send never unblocks.
	// Cancelling a producer that has already exited is harmless.
	sub.mu.Lock()
	if sub.cancelFn != nil {
		sub.cancelFn()
	}
	sub.mu.Unlock()
}

// Sequence is a cold observable over a streaming HTTP response: nothing
// happens until Subscribe, then decoded objects arrive on the channel
// followed by exactly one terminal event (unless cancelled).
type Sequence[T any] struct {
	client *httpclient.Client
	req    httpclient.Request
	decode DecodeFunc[T]
	opts   options[T]

	sub     *Subscription
	ch      chan Event[T]
	once    sync.Once
	chunks  atomic.Int64
	termErr error
}

// Open prepares a sequence over the given streaming request. No I/O happens
// here: the request is issued by the first Subscribe call. The returned
// Subscription cancels the stream and reports its state.
func Open[T any](client *httpclient.Client, req httpclient.Request, decode DecodeFunc[T], opts ...Option[T]) (*Sequence[T], *Subscription) {
	o := options[T]{
		format:       FormatNDJSON,
		maxChunkSize: defaultMaxChunk,
	}
	for _, opt := range opts {
		opt(&o)
	}

	sub := &Subscription{}
	seq := &Sequence[T]{
		client: client,
		req:    req,
		decode: decode,
		opts:   o,
		sub:    sub,
		ch:     make(chan Event[T]),
	}
	return seq, sub
}

// Subscribe issues the request and returns the event channel. The channel
// carries zero or more object events followed by exactly one terminal event
// (error or done), then closes. A cancelled sequence closes the channel with
// no terminal event. Later calls return the same channel; only the first one
// starts the stream.
//
// The channel is unbuffered: delivery paces the producer to the consumer.
// A consumer that stops receiving must Cancel, or the producer blocks.
func (s *Sequence[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	s.once.Do(func() {
		if !s.sub.state.CompareAndSwap(int32(StateIdle), int32(StateStreaming)) {
			// Cancelled before subscribe: no request, nothing to deliver.
			if s.opts.observer != nil {
				s.opts.observer(s.sub.State(), 0, nil)
			}
			close(s.ch)
			return
		}

		pctx, cancel := context.WithCancel(ctx)
		s.sub.mu.Lock()
		s.sub.cancelFn = cancel
		raced := s.sub.State() == StateCancelled
		s.sub.mu.Unlock()
		if raced {
			// Cancel slipped in between the CAS and the handoff; it could
			// not see cancelFn, so fire it here.
			cancel()
		}

		go s.produce(pctx, cancel)
	})
	return s.ch
}

// produce is the single goroutine that performs every read, decode, and send.
func (s *Sequence[T]) produce(ctx context.Context, cancel context.CancelFunc) {
	log := logger.WithComponent("stream")

	defer cancel()
	defer close(s.ch)
	defer func() {
		// An exit on a cancelled context settles the state before the channel
		// closes, covering parent-context cancellation where
		// Subscription.Cancel never ran.
		if ctx.Err() != nil {
			s.sub.state.CompareAndSwap(int32(StateStreaming), int32(StateCancelled))
		}
		if s.opts.observer != nil {
			s.opts.observer(s.sub.State(), s.chunks.Load(), s.termErr)
		}
		log.Debug("stream closed", logger.Fields(
			logger.FieldStatus, s.sub.State().String(),
			logger.FieldChunks, s.chunks.Load(),
		))
	}()

	resp, err := s.client.DoStream(ctx, s.req)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	defer func() { _ = resp.Close() }()

	log.Debug("stream opened", logger.Fields(
		logger.FieldStatusCode, resp.StatusCode,
	))

	switch s.opts.format {
	case FormatSSE:
		s.readSSE(ctx, resp)
	default:
		s.readNDJSON(ctx, resp)
	}
}

// readNDJSON splits the body into lines and processes each non-empty one.
func (s *Sequence[T]) readNDJSON(ctx context.Context, resp *httpclient.StreamResponse) {
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, initialChunkBuf), s.opts.maxChunkSize)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if !s.handleChunk(ctx, line, resp) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		s.fail(ctx, err)
		return
	}
	s.complete(ctx)
}

// readSSE parses event-stream frames and processes each data payload.
func (s *Sequence[T]) readSSE(ctx context.Context, resp *httpclient.StreamResponse) {
	r := sse.NewReader(resp.Body)
	for {
		event, err := r.Next()
		if err != nil {
			if err == io.EOF {
				s.complete(ctx)
			} else {
				s.fail(ctx, err)
			}
			return
		}
		if event.Data == "" {
			continue
		}
		if !s.handleChunk(ctx, []byte(event.Data), resp) {
			return
		}
	}
}

// handleChunk decodes and emits one chunk. Returns false when reading must
// stop: terminal event emitted, sentinel hit, done-func fired, or cancelled.
func (s *Sequence[T]) handleChunk(ctx context.Context, raw []byte, resp *httpclient.StreamResponse) bool {
	if s.opts.stopSentinel != "" && string(raw) == s.opts.stopSentinel {
		s.complete(ctx)
		return false
	}

	obj, err := s.decodeChunk(raw)
	if err != nil {
		// Close the transport before the terminal send so the connection is
		// not held while waiting on the consumer.
		_ = resp.Close()
		s.fail(ctx, NewDecodeError(append([]byte(nil), raw...), err))
		return false
	}

	if !s.emit(ctx, obj) {
		return false
	}

	if s.opts.doneFunc != nil && s.opts.doneFunc(obj) {
		s.complete(ctx)
		return false
	}
	return true
}

// decodeChunk invokes the decoder with panic recovery.
func (s *Sequence[T]) decodeChunk(raw []byte) (obj T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode panic: %v", r)
		}
	}()
	return s.decode(raw)
}

// emit delivers one object, racing the send against cancellation. Once
// Cancel has returned the context is cancelled, so nothing is delivered
// after it.
func (s *Sequence[T]) emit(ctx context.Context, obj T) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case s.ch <- Event[T]{Object: obj}:
		s.chunks.Add(1)
		return true
	case <-ctx.Done():
		return false
	}
}

// complete moves the sequence to Completed and emits the done event.
func (s *Sequence[T]) complete(ctx context.Context) {
	if !s.sub.state.CompareAndSwap(int32(StateStreaming), int32(StateCompleted)) {
		return
	}
	select {
	case s.ch <- Event[T]{Done: true}:
	case <-ctx.Done():
	}
}

// fail moves the sequence to Failed and emits the terminal error. A failure
// observed after cancellation is suppressed: the read was aborted by the
// consumer, not the transport.
func (s *Sequence[T]) fail(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	if !s.sub.state.CompareAndSwap(int32(StateStreaming), int32(StateFailed)) {
		return
	}
	serr := Normalize(err)
	s.termErr = serr
	select {
	case s.ch <- Event[T]{Err: serr}:
	case <-ctx.Done():
	}
}
