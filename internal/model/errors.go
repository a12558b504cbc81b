package model

import (
	"encoding/json"
	"errors"
)

// Sentinel errors for matching with errors.Is
var (
	// ErrPoisonedLock means a critical section panicked while holding the lock
	ErrPoisonedLock = errors.New("the mutex was poisoned")

	// ErrNotFound means an index-based lookup exceeded the current bounds
	ErrNotFound = errors.New("not found")
)

// ErrorKind classifies an Error
type ErrorKind string

const (
	KindPoisonedLock ErrorKind = "poisoned_lock"
	KindNotFound     ErrorKind = "not_found"
)

// Error is the single reportable error type returned by state operations.
// It serializes to its message string.
type Error struct {
	Kind        ErrorKind
	Description string
}

// PoisonedLock creates a lock-poisoning error
func PoisonedLock(description string) *Error {
	return &Error{Kind: KindPoisonedLock, Description: description}
}

// NotFound creates a lookup error
func NotFound(description string) *Error {
	return &Error{Kind: KindNotFound, Description: description}
}

// Error implements error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindPoisonedLock:
		if e.Description == "" {
			return ErrPoisonedLock.Error()
		}
		return ErrPoisonedLock.Error() + ": " + e.Description
	default:
		if e.Description == "" {
			return ErrNotFound.Error()
		}
		return e.Description
	}
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindPoisonedLock:
		return target == ErrPoisonedLock
	case KindNotFound:
		return target == ErrNotFound
	}
	return false
}

// MarshalJSON encodes the error as its message
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Error())
}
