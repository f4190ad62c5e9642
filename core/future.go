package core

import (
	"context"
	"sync"
	"time"
)

// Void is the result type for tasks that produce no value.
type Void struct{}

// Future is a read handle for the eventual result of a submitted task.
// It resolves exactly once, to either the callable's return value, the error
// it returned, a PanicError if it panicked, or ErrTaskDiscarded if the task
// was dropped from the queue by Clear or Join(true) before running.
//
// A Future is safe for concurrent use; any number of goroutines may wait on it.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete resolves the future. Later calls are ignored; the queue owns a
// task until it is either popped or drained, so the execution and discard
// paths never both run, but the once keeps the exactly-once contract local.
func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Get blocks until the task resolves and returns its value or error.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// GetContext blocks until the task resolves or ctx is done. On context
// expiry the zero value and ctx.Err() are returned; the task itself is
// unaffected and may still complete later.
func (f *Future[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TimedGet is GetContext with a timeout. It returns context.DeadlineExceeded
// if the task does not resolve within d.
func (f *Future[T]) TimedGet(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return f.GetContext(ctx)
}

// Done returns a channel that is closed when the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
