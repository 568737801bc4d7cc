package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCacheMiss is returned when no cached exchange exists for a request
// identity. During a network-first fallback it degrades to a hard failure.
var ErrCacheMiss = errors.New("cache miss")

// TransportError wraps a network-level failure (unreachable, reset, DNS).
// Retryable.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates a logical fetch lost the race against its deadline.
// Retryable; handled identically to TransportError by retry logic but kept
// distinct for logging and metrics.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("deadline exceeded after %s", e.Elapsed)
}

// UpstreamError indicates the server answered with a non-2xx status. The
// server rejected the request rather than being unavailable, so it is
// surfaced immediately without retry.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRetryable reports whether the retry policy applies to err.
func IsRetryable(err error) bool {
	var te *TransportError
	var to *TimeoutError
	return errors.As(err, &te) || errors.As(err, &to)
}

// ClassifyError maps an error to its taxonomy label for logs and metrics.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrCacheMiss):
		return "cache_miss"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		var te *TransportError
		var to *TimeoutError
		var ue *UpstreamError
		switch {
		case errors.As(err, &to):
			return "timeout"
		case errors.As(err, &ue):
			return "upstream"
		case errors.As(err, &te):
			return "transport"
		}
		return "transport"
	}
}
