package core

import "runtime/debug"

// task is the type-erased unit of work stored in the queue. The typed
// callable and its future are captured by the run and discard closures, so
// one queue can hold tasks of arbitrary, mutually incompatible result types.
//
// A task is owned by the queue until popped; the popping worker then owns it
// exclusively. Exactly one of run or discard is ever invoked.
type task struct {
	// run executes the callable and resolves the future with its result.
	// A recovered panic is returned so the worker can report it.
	run func() *PanicError

	// discard resolves the future with ErrTaskDiscarded without executing.
	discard func()

	priority uint
	seq      uint64
	index    int // maintained by the heap
}

// bindTask wraps a typed callable into a type-erased task and returns the
// future bound to its result slot.
func bindTask[T any](fn func() (T, error), priority uint) (*task, *Future[T]) {
	future := newFuture[T]()
	t := &task{
		priority: priority,
		discard: func() {
			var zero T
			future.complete(zero, ErrTaskDiscarded)
		},
	}
	t.run = func() (perr *PanicError) {
		defer func() {
			if r := recover(); r != nil {
				perr = newPanicError(r, debug.Stack())
				var zero T
				future.complete(zero, perr)
			}
		}()
		value, err := fn()
		future.complete(value, err)
		return nil
	}
	return t, future
}
