package main

import (
	"errors"
	"net"
	"strings"
)

// FatalError represents an error that should stop the whole scheduler
// immediately, typically a configuration problem retrying cannot fix.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// NewFatalError wraps an error as fatal.
func NewFatalError(err error) error {
	return &FatalError{Err: err}
}

// IsFatalError checks if the error should stop all workers.
func IsFatalError(err error) bool {
	if err == nil {
		return false
	}
	var fe *FatalError
	return errors.As(err, &fe)
}

// transportErrorPatterns contains error message substrings that indicate a
// network-level failure as opposed to an application-level response.
var transportErrorPatterns = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"i/o timeout",
	"context deadline exceeded",
	"context canceled",
	"TLS handshake timeout",
	"EOF",
	"malformed HTTP response",
	"transport connection broken",
	"use of closed network connection",
}

// IsTransportError checks whether the error came from the transport itself
// (connection error, timeout) rather than from the application. Transport
// failures terminate a run; nothing else does.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := err.Error()
	for _, pattern := range transportErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
