package core

// worker bridges one goroutine to the pool's pull-execute loop.
//
// The loop is owned by the PoolCore; the worker only supplies the goroutine.
// A worker exits when the pool is joining, when its blocking pop times out
// with no work (idle despawn), or when the created count exceeds a lowered
// max thread limit. It is never cancelled mid-task.
type worker struct {
	id   int
	core *PoolCore

	// stop is captured at spawn time. Join waits for every worker to exit
	// before resetting the channel, so it never changes under a live worker.
	stop <-chan struct{}
}

func (w *worker) run() {
	for {
		if uint(w.core.threadsCreated.Load()) > uint(w.core.maxThreads.Load()) {
			w.core.onWorkerExit(w.id)
			return
		}

		// Block here while paused; in-flight tasks are unaffected because
		// the gate is checked once per iteration, before popping.
		w.core.gate.wait(w.stop)

		t, ok := w.core.queue.PopWait(w.core.despawnTimeout, w.stop)
		if !ok {
			// Either the pool is joining or this worker sat idle for the
			// full despawn timeout. Retirement races submission: a task
			// pushed after the pop gave up still counted this worker as
			// live capacity and would strand with no one to run it, so
			// retire re-checks the queue and may re-admit this worker.
			if w.core.retireWorker(w.id) {
				return
			}
			continue
		}

		w.core.runTask(w.id, t)
	}
}
