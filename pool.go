package threadpool

import (
	"runtime"
	"time"

	"github.com/respu/threadpool/core"
)

// Pool is a dynamically-sized worker pool executing prioritized tasks.
// It is a thin facade over core.PoolCore; every method forwards there.
//
// Workers are spawned on demand up to the configured maximum and despawn
// after sitting idle for the despawn timeout. A zero-value maximum means no
// worker is ever spawned and submitted tasks queue forever.
type Pool struct {
	core *core.PoolCore
}

// Option configures a Pool at construction time.
type Option func(*core.Config)

// WithMaxThreads sets the maximum number of workers. The default is
// runtime.NumCPU(). Zero is accepted and means tasks are queued but never
// executed until the limit is raised.
func WithMaxThreads(n uint) Option {
	return func(cfg *core.Config) { cfg.MaxThreads = n }
}

// WithStartPaused creates the pool with the pause gate closed. No task is
// picked up until Unpause is called; tasks may still be submitted.
func WithStartPaused() Option {
	return func(cfg *core.Config) { cfg.StartPaused = true }
}

// WithDespawnTimeout sets how long an idle worker waits for a task before
// exiting. The default is core.DefaultDespawnTimeout.
func WithDespawnTimeout(d time.Duration) Option {
	return func(cfg *core.Config) { cfg.DespawnTimeout = d }
}

// WithLogger sets the logger receiving pool lifecycle events.
func WithLogger(l core.Logger) Option {
	return func(cfg *core.Config) { cfg.Logger = l }
}

// WithPanicHandler sets the handler notified when a task panics.
func WithPanicHandler(h core.PanicHandler) Option {
	return func(cfg *core.Config) { cfg.PanicHandler = h }
}

// WithMetrics sets the metrics sink for task execution events.
func WithMetrics(m core.Metrics) Option {
	return func(cfg *core.Config) { cfg.Metrics = m }
}

// New creates a pool. No worker goroutine is started until the first
// submission finds no idle capacity.
func New(opts ...Option) *Pool {
	cfg := core.Config{MaxThreads: uint(runtime.NumCPU())}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pool{core: core.NewPoolCore(cfg)}
}

// Submit enqueues a zero-argument callable with the given priority and
// returns a Future for its result. Higher priority values are served first.
// For a function taking arguments, close over them in fn.
//
// Submit may spawn one worker as a side effect. It returns ErrNilTask for a
// nil fn and ErrPoolJoining while a Join is in progress.
//
// Submit is a package-level function because Go methods cannot introduce
// type parameters.
func Submit[T any](p *Pool, fn func() (T, error), priority uint) (*Future[T], error) {
	return core.Submit(p.core, fn, priority)
}

// SubmitFunc enqueues a callable with no return value. The future is only
// useful for observing completion and the task's error, if any.
func SubmitFunc(p *Pool, fn func() error, priority uint) (*Future[Void], error) {
	if fn == nil {
		return nil, core.ErrNilTask
	}
	return core.Submit(p.core, func() (Void, error) {
		return Void{}, fn()
	}, priority)
}

// Pause halts task pickup without affecting in-flight executions. Pausing an
// already paused pool is a no-op. Tasks may still be submitted while paused,
// and idle workers do not despawn while blocked on the gate.
func (p *Pool) Pause() {
	p.core.Pause()
}

// Unpause reopens the pool for task pickup.
func (p *Pool) Unpause() {
	p.core.Unpause()
}

// Paused reports whether the pool is paused.
func (p *Pool) Paused() bool {
	return p.core.Paused()
}

// Wait blocks until the task queue is empty. Worker goroutines may still be
// executing tasks when Wait returns, and concurrent submissions can refill
// the queue before the caller observes the empty state.
func (p *Pool) Wait() {
	p.core.Wait()
}

// Clear discards all pending tasks. Their futures resolve with
// ErrTaskDiscarded. Running tasks are not stopped.
func (p *Pool) Clear() {
	p.core.Clear()
}

// Empty reports whether the task queue is empty.
func (p *Pool) Empty() bool {
	return p.core.Empty()
}

// Join waits for all workers to finish executing and exit. Join(true)
// discards pending tasks first and returns once running tasks complete;
// Join(false) waits until the queue drains. The pool is reusable after Join
// returns.
func (p *Pool) Join(clearPending bool) {
	p.core.Join(clearPending)
}

// MaxThreads returns the maximum number of workers the pool may spawn.
func (p *Pool) MaxThreads() uint {
	return p.core.MaxThreads()
}

// SetMaxThreads changes the worker limit at runtime. It takes effect on the
// next submission's growth check.
func (p *Pool) SetMaxThreads(n uint) {
	p.core.SetMaxThreads(n)
}

// ThreadsCreated returns the number of live workers.
func (p *Pool) ThreadsCreated() uint {
	return p.core.ThreadsCreated()
}

// ThreadsRunning returns the number of workers currently executing a task.
func (p *Pool) ThreadsRunning() uint {
	return p.core.ThreadsRunning()
}

// QueuedTaskCount returns the number of tasks waiting in the queue.
func (p *Pool) QueuedTaskCount() int {
	return p.core.QueuedTaskCount()
}

// Stats returns a point-in-time observability snapshot of the pool.
func (p *Pool) Stats() core.PoolStats {
	return p.core.Stats()
}
