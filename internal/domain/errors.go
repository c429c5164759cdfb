package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a TextStore when the code was never issued,
// has already been consumed, or has expired. Callers cannot tell these apart.
var ErrNotFound = errors.New("not found")

// ValidationError reports bad or missing client input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StoreError wraps any failure talking to the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
