// Package stream turns a chunked HTTP response into a live, cancellable
// sequence of typed objects.
//
// A Sequence is cold: Open performs no I/O, and the request is issued by the
// first Subscribe call. The channel then carries zero or more decoded objects
// followed by exactly one terminal event, after which it closes:
//
//	seq, sub := stream.Open(client, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/api/generate",
//	    Body:   reqBody,
//	}, stream.JSON[Chunk]())
//
//	for ev := range seq.Subscribe(ctx) {
//	    switch {
//	    case ev.IsError():
//	        return ev.Err
//	    case ev.IsDone():
//	        return nil
//	    default:
//	        handle(ev.Object)
//	    }
//	}
//
// Cancellation is driven through the Subscription: sub.Cancel() aborts the
// HTTP request, releases the connection, and closes the channel without a
// terminal event. Cancel is idempotent and may be called before Subscribe,
// in which case no request is ever issued.
//
// Lifecycle states run Idle → Streaming → {Completed | Failed | Cancelled};
// terminal states are absorbing. Terminal errors carry a three-way
// classification: a non-success status before streaming (ErrCodeStatus, with
// the undecoded response body), a connection failure mid-stream
// (ErrCodeTransport), or a chunk that failed to decode (ErrCodeDecode, with
// the offending bytes). A decode failure also closes the transport; the
// remainder of the response is never read.
//
// The package never retries: one Open/Subscribe is one connection. Retry
// belongs to the caller, where the request's idempotency is known.
//
// For pull-style consumption wrap the sequence in an Iterator:
//
//	it := stream.NewIterator(seq)
//	defer it.Close()
//	for {
//	    obj, ok, err := it.Next(ctx)
//	    if err != nil || !ok {
//	        return err
//	    }
//	    handle(obj)
//	}
package stream
