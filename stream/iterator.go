package stream

import "context"

// Iterator is a pull-style reader over a Sequence for consumers that prefer
// call-and-return over channel receives. Not safe for concurrent use.
type Iterator[T any] struct {
	seq  *Sequence[T]
	ch   <-chan Event[T]
	err  error
	done bool
}

// NewIterator wraps a sequence in a pull iterator. The stream starts on the
// first Next call.
func NewIterator[T any](seq *Sequence[T]) *Iterator[T] {
	return &Iterator[T]{seq: seq}
}

// Next returns the next object. ok is false when the stream is over: err is
// nil after clean completion or cancellation, non-nil after a terminal
// error. A ctx deadline during the wait returns ctx's error without ending
// the iterator; the same stream can be polled again.
func (it *Iterator[T]) Next(ctx context.Context) (obj T, ok bool, err error) {
	var zero T
	if it.done {
		return zero, false, it.err
	}
	if it.ch == nil {
		it.ch = it.seq.Subscribe(ctx)
	}

	select {
	case ev, open := <-it.ch:
		if !open {
			// Closed without a terminal event: cancelled.
			it.done = true
			return zero, false, it.err
		}
		if ev.IsError() {
			it.done = true
			it.err = ev.Err
			return zero, false, ev.Err
		}
		if ev.IsDone() {
			it.done = true
			return zero, false, nil
		}
		return ev.Object, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Err returns the terminal error, if any, once the iterator is exhausted.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Close cancels the underlying stream. Safe to call at any point and more
// than once.
func (it *Iterator[T]) Close() {
	it.seq.sub.Cancel()
}
