package worker

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is returned for tasks whose result is no longer wanted,
	// either because the token died or the pool shut down.
	ErrCanceled = errors.New("worker: execution canceled")

	// ErrInvalidSize is returned by New for a non-positive unit count.
	ErrInvalidSize = errors.New("worker: invalid number of execution units")
)

// ExecutionFault wraps an error returned, or a panic raised, by an
// executor while running a task.
type ExecutionFault struct {
	Unit int
	Err  error
}

func (e *ExecutionFault) Error() string {
	return fmt.Sprintf("worker: unit %d: %v", e.Unit, e.Err)
}

func (e *ExecutionFault) Unwrap() error { return e.Err }
