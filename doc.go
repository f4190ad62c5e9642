// Package threadpool provides a dynamically-sized worker pool that executes
// prioritized tasks and returns their eventual results through futures.
//
// Workers are spawned only when a submission finds no idle worker and the
// pool is below its maximum size, and they despawn again after sitting idle
// for the configured timeout. No master goroutine manages load; the pool
// grows and shrinks purely from the submission and idle signals.
//
// # Quick Start
//
//	pool := threadpool.New(threadpool.WithMaxThreads(4))
//	defer pool.Join(false)
//
//	future, err := threadpool.Submit(pool, func() (int, error) {
//		return len("hello"), nil
//	}, 0)
//	if err != nil {
//		// pool is joining or fn was nil
//	}
//	n, err := future.Get()
//
// # Key Concepts
//
// Priority: each task carries an unsigned priority; among queued tasks a
// strictly higher priority is always served first. Equal priorities are
// served in submission order.
//
// Future: the handle through which a task's result is observed. It resolves
// exactly once, to the callable's value, its error, a PanicError if the
// callable panicked, or ErrTaskDiscarded if the task was dropped by Clear or
// Join(true) before running.
//
// Pause: Pause stops task pickup without interrupting tasks already
// executing; Unpause resumes. Pausing twice is a no-op, never a deadlock.
//
// Join: Join(false) waits for the queue to drain and all workers to exit;
// Join(true) discards pending tasks first. The pool is reusable afterwards.
//
// # Observability
//
// The pool exposes live counters (ThreadsCreated, ThreadsRunning,
// QueuedTaskCount) and a Stats snapshot. The observability/prometheus
// package exports both as Prometheus collectors, and observability/zaplog
// adapts the pool's Logger interface to zap.
package threadpool
