package stream

import (
	"errors"
	"fmt"

	"github.com/kbukum/streambridge/httpclient"
	"github.com/kbukum/streambridge/util"
)

// chunkPreviewLen bounds how much of an offending chunk appears in error text.
const chunkPreviewLen = 120

// ErrorCode classifies terminal stream errors.
type ErrorCode int

const (
	// ErrCodeStatus indicates a non-success HTTP status before any chunk was
	// decoded. The response body is carried as-is, never chunk-decoded.
	ErrCodeStatus ErrorCode = iota
	// ErrCodeTransport indicates a connection-level failure mid-stream.
	ErrCodeTransport
	// ErrCodeDecode indicates a chunk that failed to decode.
	ErrCodeDecode
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeStatus:
		return "status"
	case ErrCodeTransport:
		return "transport"
	case ErrCodeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a terminal stream error. It is always the payload of the final
// event on a failed sequence.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// StatusCode is the HTTP status for status errors (0 otherwise).
	StatusCode int
	// Message describes the error.
	Message string
	// Body is the response body for status errors (may be nil).
	Body []byte
	// Chunk is the offending raw chunk for decode errors (may be nil).
	Chunk []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeStatus:
		return fmt.Sprintf("stream: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	case ErrCodeDecode:
		return fmt.Sprintf("stream: %s: %s: chunk %q", e.Code, e.Message, util.Truncate(string(e.Chunk), chunkPreviewLen))
	default:
		return fmt.Sprintf("stream: %s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewStatusError creates a terminal error for a non-success HTTP status.
func NewStatusError(statusCode int, body []byte, err error) *Error {
	return &Error{
		Code:       ErrCodeStatus,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
		Err:        err,
	}
}

// NewTransportError creates a terminal error for a mid-stream connection failure.
func NewTransportError(err error) *Error {
	return &Error{
		Code:    ErrCodeTransport,
		Message: err.Error(),
		Err:     err,
	}
}

// NewDecodeError creates a terminal error for a chunk that failed to decode.
func NewDecodeError(chunk []byte, err error) *Error {
	return &Error{
		Code:    ErrCodeDecode,
		Message: err.Error(),
		Chunk:   chunk,
		Err:     err,
	}
}

// IsStatus reports whether err is a stream status error.
func IsStatus(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeStatus
}

// IsTransport reports whether err is a stream transport error.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTransport
}

// IsDecode reports whether err is a stream decode error.
func IsDecode(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDecode
}

// Normalize maps an arbitrary error into the stream taxonomy. Stream errors
// pass through; classified HTTP errors with a status become status errors;
// everything else is a transport error.
func Normalize(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	var he *httpclient.Error
	if errors.As(err, &he) {
		if he.StatusCode > 0 {
			return NewStatusError(he.StatusCode, he.Body, he)
		}
		return NewTransportError(he)
	}
	return NewTransportError(err)
}
