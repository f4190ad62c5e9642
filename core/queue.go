package core

import (
	"container/heap"
	"sync"
	"time"
)

const defaultQueueCap = 16

// taskHeap implements heap.Interface as a max-heap over task priority.
// Equal priorities fall back to submission order so the queue stays stable.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x interface{}) {
	n := len(*h)
	t := x.(*task)
	t.index = n
	*h = append(*h, t)
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil // Avoid memory leak
	t.index = -1
	*h = old[0 : n-1]
	return t
}

// taskQueue is the priority queue shared by submitters and workers.
//
// All operations serialize on one mutex. "Task available" wakeups go through
// per-waiter channels so Push can wake exactly one blocked PopWait without a
// lost-wakeup window; "queue empty" wakeups for WaitEmpty use a condition
// variable broadcast since every sleeper must observe the transition.
type taskQueue struct {
	mu      sync.Mutex
	heap    taskHeap
	waiters []chan struct{}
	empty   *sync.Cond
	nextSeq uint64
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{
		heap: make(taskHeap, 0, defaultQueueCap),
	}
	q.empty = sync.NewCond(&q.mu)
	return q
}

// Push inserts a task and wakes one blocked popper if any.
func (q *taskQueue) Push(t *task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.heap, t)

	if len(q.waiters) > 0 {
		w := q.waiters[0]
		q.waiters = q.waiters[1:]
		close(w)
	}
}

// TryPop returns the highest-priority task without blocking.
func (q *taskQueue) TryPop() (*task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *taskQueue) popLocked() (*task, bool) {
	if len(q.heap) == 0 {
		return nil, false
	}
	t := heap.Pop(&q.heap).(*task)
	if len(q.heap) == 0 {
		q.empty.Broadcast()
	}
	return t, true
}

// PopWait returns the highest-priority task, blocking up to timeout for one
// to arrive. It returns (nil, false) when the timeout elapses with the queue
// empty, or as soon as stop is closed while the queue is empty. A non-empty
// queue is always served, even after stop is closed, so a non-clearing join
// drains pending work.
func (q *taskQueue) PopWait(timeout time.Duration, stop <-chan struct{}) (*task, bool) {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	for {
		if t, ok := q.popLocked(); ok {
			q.mu.Unlock()
			return t, true
		}

		select {
		case <-stop:
			q.mu.Unlock()
			return nil, false
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			q.mu.Unlock()
			return nil, false
		}

		w := make(chan struct{})
		q.waiters = append(q.waiters, w)
		q.mu.Unlock()

		timer := time.NewTimer(remaining)
		select {
		case <-w:
		case <-timer.C:
		case <-stop:
		}
		timer.Stop()

		q.mu.Lock()
		q.removeWaiterLocked(w)
	}
}

// removeWaiterLocked drops w from the waiter list. If Push already consumed
// and closed it the wakeup is accounted for by the pop retry in PopWait.
func (q *taskQueue) removeWaiterLocked(w chan struct{}) {
	for i, c := range q.waiters {
		if c == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return
		}
	}
}

// Drain removes all pending tasks, resolving each future with
// ErrTaskDiscarded, and returns how many were dropped. Tasks already
// executing are unaffected.
func (q *taskQueue) Drain() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.heap)
	if n == 0 {
		return 0
	}
	for _, t := range q.heap {
		t.discard()
	}
	q.heap = make(taskHeap, 0, defaultQueueCap)
	q.empty.Broadcast()
	return n
}

// WaitEmpty blocks the caller until the queue is empty. It does not wait for
// in-flight executions and returns immediately on an empty queue.
func (q *taskQueue) WaitEmpty() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.heap) > 0 {
		q.empty.Wait()
	}
}

// Len returns the number of queued tasks.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// IsEmpty reports whether the queue holds no tasks. Point-in-time snapshot;
// workers may still be executing when it returns true.
func (q *taskQueue) IsEmpty() bool {
	return q.Len() == 0
}
