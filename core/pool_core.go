package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// PoolCore is the pool orchestrator. It owns the task queue, the worker set
// and every piece of shared mutable state: the created/running counters, the
// max-thread limit, the pause gate and the join latch.
//
// Workers hold a reference to the core and pull work from it; the facade in
// the root package forwards every call here.
type PoolCore struct {
	queue *taskQueue
	gate  *pauseGate

	// stateMu guards the join latch against the submission path. Submitters
	// hold the read side across the spawn-and-enqueue sequence so a join can
	// never latch between a worker being counted and its goroutine starting.
	stateMu       sync.RWMutex
	joinRequested atomic.Bool
	stop          chan struct{}

	// joinSerial serializes concurrent Join calls.
	joinSerial sync.Mutex

	maxThreads     atomic.Uint32
	threadsCreated atomic.Int32
	threadsRunning atomic.Int32
	nextWorkerID   atomic.Int32

	executed  atomic.Uint64
	discarded atomic.Uint64

	wg sync.WaitGroup

	despawnTimeout time.Duration
	logger         Logger
	panicHandler   PanicHandler
	metrics        Metrics
}

// NewPoolCore creates a pool orchestrator from cfg. No worker is spawned
// until the first submission finds no idle capacity.
func NewPoolCore(cfg Config) *PoolCore {
	cfg.fillDefaults()

	c := &PoolCore{
		queue:          newTaskQueue(),
		gate:           newPauseGate(cfg.StartPaused),
		stop:           make(chan struct{}),
		despawnTimeout: cfg.DespawnTimeout,
		logger:         cfg.Logger,
		panicHandler:   cfg.PanicHandler,
		metrics:        cfg.Metrics,
	}
	c.maxThreads.Store(uint32(cfg.MaxThreads))
	return c
}

// Submit enqueues a typed callable with the given priority and returns the
// future bound to its result. Higher priority values are served first.
//
// If every created worker is busy and the created count is below the max,
// exactly one new worker is spawned first. The compare-and-grow on the
// created counter keeps threads_created <= max_threads strict even under
// concurrent submission.
//
// Submit is a package function because Go methods cannot introduce type
// parameters.
func Submit[T any](c *PoolCore, fn func() (T, error), priority uint) (*Future[T], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	if c.joinRequested.Load() {
		return nil, ErrPoolJoining
	}

	t, future := bindTask(fn, priority)
	c.maybeSpawn()
	c.queue.Push(t)
	c.metrics.RecordQueueDepth(c.queue.Len())
	return future, nil
}

// maybeSpawn implements the grow-on-demand policy: spawn one worker when no
// idle capacity exists and the limit allows it. Callers hold stateMu.RLock.
func (c *PoolCore) maybeSpawn() {
	for {
		created := c.threadsCreated.Load()
		if created >= int32(c.maxThreads.Load()) {
			return
		}
		if created != c.threadsRunning.Load() {
			// Idle worker available; it will pick the task up.
			return
		}
		if c.threadsCreated.CompareAndSwap(created, created+1) {
			c.startWorker()
			return
		}
	}
}

func (c *PoolCore) startWorker() {
	id := int(c.nextWorkerID.Add(1))
	w := &worker{id: id, core: c, stop: c.stop}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		w.run()
	}()
	c.logger.Debug("worker spawned",
		F("worker", id),
		F("threads_created", c.threadsCreated.Load()))
}

func (c *PoolCore) onWorkerExit(id int) {
	c.threadsCreated.Add(-1)
	c.logger.Debug("worker exited",
		F("worker", id),
		F("threads_created", c.threadsCreated.Load()))
}

// retireWorker removes an idle-expired worker from the created count and
// reports whether the exit stands. A Submit that ran between the worker's
// pop timing out and the decrement here saw it as live capacity, spawned
// nothing and pushed its task; re-checking the queue after the decrement
// closes that window. If a task is pending and the limit allows, the worker
// re-admits itself through the same compare-and-grow maybeSpawn uses and
// keeps looping instead of exiting.
func (c *PoolCore) retireWorker(id int) bool {
	c.threadsCreated.Add(-1)
	for {
		if c.queue.IsEmpty() {
			c.logger.Debug("worker exited",
				F("worker", id),
				F("threads_created", c.threadsCreated.Load()))
			return true
		}
		created := c.threadsCreated.Load()
		if created >= int32(c.maxThreads.Load()) {
			// Enough other workers remain to serve the queue.
			c.logger.Debug("worker exited",
				F("worker", id),
				F("threads_created", created))
			return true
		}
		if c.threadsCreated.CompareAndSwap(created, created+1) {
			return false
		}
	}
}

func (c *PoolCore) runTask(workerID int, t *task) {
	c.metrics.RecordQueueDepth(c.queue.Len())
	c.threadsRunning.Add(1)
	start := time.Now()
	perr := t.run()
	duration := time.Since(start)
	c.threadsRunning.Add(-1)

	c.executed.Add(1)
	c.metrics.RecordTaskDuration(t.priority, duration)
	if perr != nil {
		c.metrics.RecordTaskPanic(perr.Value)
		c.panicHandler.HandlePanic(workerID, perr.Value, perr.Stack)
	}
}

// Pause closes the pause gate. Idempotent: pausing an already paused pool is
// a no-op, never a deadlock. Tasks already executing run to completion and
// tasks may still be submitted while paused.
func (c *PoolCore) Pause() {
	c.gate.Pause()
}

// Unpause opens the pause gate and wakes all blocked workers.
func (c *PoolCore) Unpause() {
	c.gate.Unpause()
}

// Paused reports whether the pause gate is closed.
func (c *PoolCore) Paused() bool {
	return c.gate.Paused()
}

// Wait blocks until the task queue is empty. It does not wait for in-flight
// executions, and a concurrent submission can refill the queue between the
// wakeup and the return; callers wanting a true idle barrier must quiesce
// submissions themselves.
func (c *PoolCore) Wait() {
	c.queue.WaitEmpty()
}

// Clear discards all pending tasks without executing them. Each discarded
// task's future resolves with ErrTaskDiscarded. Running tasks are unaffected.
func (c *PoolCore) Clear() {
	n := c.queue.Drain()
	if n == 0 {
		return
	}
	c.discarded.Add(uint64(n))
	c.metrics.RecordTaskDiscarded(n)
	c.metrics.RecordQueueDepth(0)
	c.logger.Info("pending tasks discarded", F("count", n))
}

// Empty reports whether the task queue is empty. Workers may still be
// executing tasks when Empty returns true.
func (c *PoolCore) Empty() bool {
	return c.queue.IsEmpty()
}

// Join waits for every worker to finish and exit. With clearPending the
// queue is drained first, so Join returns once in-flight tasks complete;
// otherwise workers keep pulling until the queue is empty before exiting.
//
// While a Join is in progress Submit returns ErrPoolJoining. A join
// overrides a closed pause gate so it cannot deadlock against a paused
// pool; with clearPending false that means pending tasks execute even if
// the pool was paused. After Join returns the counters are back to zero and
// the pool is reusable for a fresh submit/join cycle.
func (c *PoolCore) Join(clearPending bool) {
	c.joinSerial.Lock()
	defer c.joinSerial.Unlock()

	if clearPending {
		c.Clear()
	}

	c.stateMu.Lock()
	c.joinRequested.Store(true)
	close(c.stop)
	c.stateMu.Unlock()

	c.gate.interrupt()
	c.wg.Wait()

	c.stateMu.Lock()
	c.stop = make(chan struct{})
	c.joinRequested.Store(false)
	c.stateMu.Unlock()

	c.logger.Info("pool joined", F("executed", c.executed.Load()))
}

// MaxThreads returns the maximum number of workers the pool may spawn.
func (c *PoolCore) MaxThreads() uint {
	return uint(c.maxThreads.Load())
}

// SetMaxThreads changes the worker limit at runtime. A raised limit takes
// effect on the next submission's growth check; a lowered one makes excess
// workers exit as they come back idle.
func (c *PoolCore) SetMaxThreads(n uint) {
	c.maxThreads.Store(uint32(n))
}

// ThreadsCreated returns the number of live workers.
func (c *PoolCore) ThreadsCreated() uint {
	n := c.threadsCreated.Load()
	if n < 0 {
		return 0
	}
	return uint(n)
}

// ThreadsRunning returns the number of workers currently executing a task.
func (c *PoolCore) ThreadsRunning() uint {
	n := c.threadsRunning.Load()
	if n < 0 {
		return 0
	}
	return uint(n)
}

// QueuedTaskCount returns the number of tasks waiting in the queue.
func (c *PoolCore) QueuedTaskCount() int {
	return c.queue.Len()
}

// Stats returns a point-in-time observability snapshot.
func (c *PoolCore) Stats() PoolStats {
	return PoolStats{
		Queued:     c.QueuedTaskCount(),
		Created:    c.ThreadsCreated(),
		Running:    c.ThreadsRunning(),
		MaxThreads: c.MaxThreads(),
		Paused:     c.Paused(),
		Executed:   c.executed.Load(),
		Discarded:  c.discarded.Load(),
	}
}
