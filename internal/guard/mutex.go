// Package guard wraps a value in a lock that becomes poisoned when a
// critical section panics. Once poisoned, every later acquisition fails with
// model.ErrPoisonedLock until Reset is called.
package guard

import (
	"fmt"
	"sync"

	"github.com/mcoot/statesync/internal/model"
)

// Mutex owns a value of type T and serializes all access to it
type Mutex[T any] struct {
	mu       sync.Mutex
	value    T
	poisoned bool
	cause    string
}

// New creates a Mutex holding value
func New[T any](value T) *Mutex[T] {
	return &Mutex[T]{value: value}
}

// With runs fn with exclusive access to the value. A panic inside fn poisons
// the lock and is returned as a PoisonedLock error. The lock is released on
// every path.
func (m *Mutex[T]) With(fn func(*T) error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poisoned {
		return model.PoisonedLock(m.cause)
	}

	defer func() {
		if r := recover(); r != nil {
			m.poisoned = true
			m.cause = fmt.Sprintf("panic while holding lock: %v", r)
			err = model.PoisonedLock(m.cause)
		}
	}()

	return fn(&m.value)
}

// Snapshot returns a copy of the value. Types holding slices must deep copy
// through With instead.
func (m *Mutex[T]) Snapshot() (T, error) {
	var out T
	err := m.With(func(v *T) error {
		out = *v
		return nil
	})
	return out, err
}

// Poisoned reports whether the lock is poisoned
func (m *Mutex[T]) Poisoned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.poisoned
}

// Reset replaces the value and clears poisoning
func (m *Mutex[T]) Reset(value T) {
	m.mu.Lock()
	m.value = value
	m.poisoned = false
	m.cause = ""
	m.mu.Unlock()
}
