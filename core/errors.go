package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTask is returned by Submit when the callable is nil.
	ErrNilTask = errors.New("threadpool: task func is nil")

	// ErrPoolJoining is returned by Submit while a Join is in progress.
	// Once Join returns the pool accepts tasks again.
	ErrPoolJoining = errors.New("threadpool: pool is joining")

	// ErrTaskDiscarded resolves the future of a task that was removed from
	// the queue by Clear or Join(true) before a worker could execute it.
	ErrTaskDiscarded = errors.New("threadpool: task discarded before execution")
)

// PanicError wraps a panic recovered from a task callable. It is delivered
// through the task's future and reported to the configured PanicHandler.
type PanicError struct {
	Value any
	Stack []byte
}

func newPanicError(value any, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("threadpool: task panicked: %v", e.Value)
}
