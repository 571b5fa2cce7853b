// Package errors provides structured error types for the reactive pool.
// All errors are designed to be safe to return to borrowers/releasers
// without exposing internal pool state.
//
// This package provides:
//   - Sentinel errors for the pool's error taxonomy (shutdown, allocator,
//     release-cleaner, destruction)
//   - Error codes for categorizing failures
//   - Error wrapping with context preservation
package errors

import (
	"errors"
	"fmt"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Error codes for categorizing pool failures.
const (
	CodeInternal = -32603 // Internal error

	CodeShutdown       = -32001 // Pool has been shut down
	CodeAllocator      = -32002 // Allocator failed to produce a resource
	CodeReleaseCleaner = -32003 // Release handler failed
	CodeDestruction    = -32004 // Resource close/dispose failed (never surfaced to callers)
	CodeInvalidConfig  = -32005 // PoolConfig failed validation
	CodeDoubleRelease  = -32006 // A PooledRef was released more than once
)

// Sentinel errors for common pool conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrPoolShutdown indicates a borrow was attempted on, or outlived, a
	// disposed pool. Its message is part of the external contract
	// ("Pool has been shut down") and must not change.
	ErrPoolShutdown = errors.New("Pool has been shut down")

	// ErrAllocator indicates the allocator's deferred computation failed.
	ErrAllocator = errors.New("allocator failed to create resource")

	// ErrReleaseCleaner indicates the release handler's deferred
	// computation failed.
	ErrReleaseCleaner = errors.New("release handler failed")

	// ErrDestruction indicates a resource's close/dispose capability
	// failed during destruction. Never returned to a borrower or
	// releaser; logged only.
	ErrDestruction = errors.New("resource destruction failed")

	// ErrInvalidConfig indicates a PoolConfig value violates its
	// invariants (e.g. maxSize < minSize).
	ErrInvalidConfig = errors.New("invalid pool configuration")

	// ErrDoubleRelease indicates a PooledRef's ReleaseHandle or
	// Invalidate was subscribed to more than once.
	ErrDoubleRelease = errors.New("pooled ref already released")
)

// Error is a structured error with a code and safe message.
// It implements the error interface and provides methods for
// error handling and response generation.
type Error struct {
	// Code is the error code for categorization.
	Code int `json:"code"`
	// Message is a safe, user-facing error message.
	Message string `json:"message"`
	// Err is the underlying error (not exposed to clients).
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new structured error with the given code and message.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps an existing error with a code and safe message.
func Wrap(code int, message string, err error) *Error {
	if err != nil {
		log.WithField("code", code).WithError(err).Debug("wrapping error")
	}
	return &Error{Code: code, Message: message, Err: err}
}

// WrapAllocator wraps an allocator failure as it will be reported to the
// single borrower whose acquisition triggered it.
func WrapAllocator(err error) *Error {
	return Wrap(CodeAllocator, ErrAllocator.Error(), fmt.Errorf("%w: %v", ErrAllocator, err))
}

// WrapReleaseCleaner wraps a release-handler failure as it will be
// reported to the releaser.
func WrapReleaseCleaner(err error) *Error {
	return Wrap(CodeReleaseCleaner, ErrReleaseCleaner.Error(), fmt.Errorf("%w: %v", ErrReleaseCleaner, err))
}

// LogDestruction logs a destruction failure at WARN. It never returns an
// error: destruction failures are swallowed by design (a broken closer
// never blocks the pool or leaks back to a caller).
func LogDestruction(err error) {
	if err == nil {
		return
	}
	log.WithError(err).Warn("released Poolable that is Closeable")
}

// IsShutdown returns true if err indicates the pool has been shut down.
func IsShutdown(err error) bool {
	return errors.Is(err, ErrPoolShutdown)
}

// IsAllocator returns true if err originated from the allocator.
func IsAllocator(err error) bool {
	return errors.Is(err, ErrAllocator)
}

// IsReleaseCleaner returns true if err originated from the release handler.
func IsReleaseCleaner(err error) bool {
	return errors.Is(err, ErrReleaseCleaner)
}

// IsDoubleRelease returns true if err indicates a PooledRef was released
// more than once.
func IsDoubleRelease(err error) bool {
	return errors.Is(err, ErrDoubleRelease)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target, and if so,
// sets target to that error value and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join combines multiple errors into a single error. Returns nil if all
// errors are nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
