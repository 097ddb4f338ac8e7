package domain

import (
	"errors"
	"fmt"
)

// Domain errors returned by the public API, checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running client.
	ErrAlreadyRunning = errors.New("soma: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped client.
	ErrNotRunning = errors.New("soma: not running")

	// ErrClientClosed is returned when Start() is called on a client that
	// has already been stopped. Stop releases the store and monitor, so a
	// stopped client cannot be restarted; create a new one instead.
	ErrClientClosed = errors.New("soma: client closed")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("soma: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("soma: invalid configuration")

	// ErrUnknownKind is returned when a mutation is submitted with a kind
	// that is not part of the closed set.
	ErrUnknownKind = errors.New("soma: unknown mutation kind")
)

// TransientError marks an executor failure as a network-level, retryable
// condition. Executors wrap connection and timeout failures with Transient;
// anything else (validation, auth, server rejection) is left unwrapped and
// propagates to the caller instead of being queued.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError. Returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Transientf wraps a formatted error as a TransientError.
func Transientf(format string, args ...interface{}) error {
	return &TransientError{Err: fmt.Errorf(format, args...)}
}

// IsTransient reports whether err carries a TransientError anywhere in its
// chain. This is the only network-error classification the queue performs;
// message-text matching is deliberately not supported.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
