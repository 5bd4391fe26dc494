// Package testutil provides scripted streaming servers and TLS certificate
// generation for tests. Everything here is test-only plumbing; nothing is
// imported by production code.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// Server starts an httptest server for h, closed automatically at test end.
func Server(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// NDJSONHandler streams each line followed by a newline, flushing after
// every line, then ends the body cleanly.
func NDJSONHandler(lines ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
		f := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintln(w, line)
			f.Flush()
		}
	})
}

// SSEHandler streams each payload as a server-sent event data frame, then
// ends the body cleanly.
func SSEHandler(datas ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		f := w.(http.Flusher)
		for _, data := range datas {
			fmt.Fprintf(w, "data: %s\n\n", data)
			f.Flush()
		}
	})
}

// AbortHandler streams the lines, then severs the connection without
// terminating the chunked body, so the client sees a mid-stream failure.
func AbortHandler(lines ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		f := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintln(w, line)
			f.Flush()
		}
		panic(http.ErrAbortHandler)
	})
}

// StallHandler streams the lines, then holds the response open until the
// client goes away. Used to test cancellation of a live stream.
func StallHandler(lines ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		f := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintln(w, line)
			f.Flush()
		}
		<-r.Context().Done()
	})
}

// StatusHandler responds with the given status and body, no streaming.
func StatusHandler(code int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		fmt.Fprint(w, body)
	})
}

// Counting wraps h and counts the requests it serves.
func Counting(h http.Handler) (http.Handler, *atomic.Int64) {
	var n atomic.Int64
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.Add(1)
		h.ServeHTTP(w, r)
	}), &n
}
