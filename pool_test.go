package threadpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/respu/threadpool"
)

// TestPool_SubmitAndGet tests the basic submit/result round trip through
// the facade
func TestPool_SubmitAndGet(t *testing.T) {
	pool := threadpool.New(threadpool.WithMaxThreads(2))
	defer pool.Join(false)

	future, err := threadpool.Submit(pool, func() (string, error) {
		return "hello", nil
	}, 0)
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}

	got, err := future.Get()
	if err != nil {
		t.Fatalf("Get() err = %v", err)
	}
	if got != "hello" {
		t.Fatalf("Get() = %q, want hello", got)
	}
}

// TestPool_SubmitFunc tests the convenience entry point for tasks with no
// result value
func TestPool_SubmitFunc(t *testing.T) {
	pool := threadpool.New(threadpool.WithMaxThreads(1))
	defer pool.Join(false)

	var ran atomic.Bool
	future, err := threadpool.SubmitFunc(pool, func() error {
		ran.Store(true)
		return nil
	}, 0)
	if err != nil {
		t.Fatalf("SubmitFunc() err = %v", err)
	}
	if _, err := future.Get(); err != nil {
		t.Fatalf("Get() err = %v", err)
	}
	if !ran.Load() {
		t.Fatal("task did not run")
	}

	if _, err := threadpool.SubmitFunc(pool, nil, 0); !errors.Is(err, threadpool.ErrNilTask) {
		t.Fatalf("SubmitFunc(nil) err = %v, want ErrNilTask", err)
	}
}

// TestPool_TwoWorkersServePriorityOrder tests the canonical scheduling
// scenario from the package documentation.
// Given: a pool capped at 2 workers, worker 1 held busy by a blocker task
// When: tasks with priorities 1, 5 and 3 are submitted while paused, then
// the pool is unpaused
// Then: exactly one more worker spawns and starts the tasks in priority
// order 5, 3, 1
func TestPool_TwoWorkersServePriorityOrder(t *testing.T) {
	pool := threadpool.New(
		threadpool.WithMaxThreads(2),
		threadpool.WithDespawnTimeout(time.Second),
	)

	release := make(chan struct{})
	blockerStarted := make(chan struct{})
	if _, err := threadpool.SubmitFunc(pool, func() error {
		close(blockerStarted)
		<-release
		return nil
	}, 100); err != nil {
		t.Fatalf("Submit blocker err = %v", err)
	}
	<-blockerStarted

	// With worker 1 occupied, the paused submissions below queue up and the
	// first one spawns worker 2.
	pool.Pause()

	var mu sync.Mutex
	var order []uint
	futures := make([]*threadpool.Future[threadpool.Void], 0, 3)
	for _, p := range []uint{1, 5, 3} {
		priority := p
		f, err := threadpool.SubmitFunc(pool, func() error {
			mu.Lock()
			order = append(order, priority)
			mu.Unlock()
			return nil
		}, priority)
		if err != nil {
			t.Fatalf("Submit priority %d err = %v", p, err)
		}
		futures = append(futures, f)
	}

	if created := pool.ThreadsCreated(); created != 2 {
		t.Fatalf("ThreadsCreated() = %d, want 2", created)
	}

	pool.Unpause()
	for _, f := range futures {
		if _, err := f.Get(); err != nil {
			t.Fatalf("future err = %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	want := []uint{5, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	close(release)
	pool.Join(false)
}

// TestPool_WaitBlocksUntilQueueDrains tests the Wait barrier
func TestPool_WaitBlocksUntilQueueDrains(t *testing.T) {
	pool := threadpool.New(
		threadpool.WithMaxThreads(2),
		threadpool.WithStartPaused(),
	)
	defer pool.Join(false)

	for i := 0; i < 6; i++ {
		if _, err := threadpool.SubmitFunc(pool, func() error { return nil }, 0); err != nil {
			t.Fatalf("Submit err = %v", err)
		}
	}

	waitReturned := make(chan struct{})
	go func() {
		pool.Wait()
		close(waitReturned)
	}()

	select {
	case <-waitReturned:
		t.Fatal("Wait() returned while the pool was paused with queued tasks")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Unpause()
	select {
	case <-waitReturned:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait() did not return after the queue drained")
	}
}

// TestPool_ClearResolvesDiscardedFutures tests Clear on a paused pool
func TestPool_ClearResolvesDiscardedFutures(t *testing.T) {
	pool := threadpool.New(
		threadpool.WithMaxThreads(1),
		threadpool.WithStartPaused(),
	)
	defer pool.Join(false)

	f1, _ := threadpool.Submit(pool, func() (int, error) { return 1, nil }, 0)
	f2, _ := threadpool.Submit(pool, func() (int, error) { return 2, nil }, 0)

	if pool.QueuedTaskCount() != 2 {
		t.Fatalf("QueuedTaskCount() = %d, want 2", pool.QueuedTaskCount())
	}

	pool.Clear()

	if !pool.Empty() {
		t.Fatal("Empty() = false after Clear")
	}
	for _, f := range []*threadpool.Future[int]{f1, f2} {
		if _, err := f.Get(); !errors.Is(err, threadpool.ErrTaskDiscarded) {
			t.Fatalf("cleared future err = %v, want ErrTaskDiscarded", err)
		}
	}
}

// TestPool_FutureTimedGet tests the non-blocking accessors on an
// unresolved future
func TestPool_FutureTimedGet(t *testing.T) {
	pool := threadpool.New(threadpool.WithMaxThreads(1))
	defer pool.Join(false)

	release := make(chan struct{})
	future, err := threadpool.Submit(pool, func() (int, error) {
		<-release
		return 7, nil
	}, 0)
	if err != nil {
		t.Fatalf("Submit err = %v", err)
	}

	if _, err := future.TimedGet(10 * time.Millisecond); err == nil {
		t.Fatal("TimedGet() on a running task returned nil error")
	}

	close(release)
	if got, err := future.Get(); err != nil || got != 7 {
		t.Fatalf("Get() = (%d, %v), want (7, nil)", got, err)
	}
}

// TestPool_PausedAccessor tests the Paused flag through the facade
func TestPool_PausedAccessor(t *testing.T) {
	pool := threadpool.New(threadpool.WithMaxThreads(1))
	defer pool.Join(false)

	if pool.Paused() {
		t.Fatal("Paused() = true on a fresh pool")
	}
	pool.Pause()
	if !pool.Paused() {
		t.Fatal("Paused() = false after Pause")
	}
	pool.Unpause()
	if pool.Paused() {
		t.Fatal("Paused() = true after Unpause")
	}
}

// TestPool_HighThroughput tests the pool under a concurrent submission
// burst from many goroutines
func TestPool_HighThroughput(t *testing.T) {
	pool := threadpool.New(
		threadpool.WithMaxThreads(8),
		threadpool.WithDespawnTimeout(100*time.Millisecond),
	)

	const submitters = 10
	const perSubmitter = 100
	var sum atomic.Int64

	var wg sync.WaitGroup
	for s := 0; s < submitters; s++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perSubmitter; i++ {
				v := int64(base*perSubmitter + i)
				if _, err := threadpool.Submit(pool, func() (int64, error) {
					sum.Add(v)
					return v, nil
				}, uint(i%4)); err != nil {
					t.Errorf("Submit err = %v", err)
					return
				}
			}
		}(s)
	}
	wg.Wait()
	pool.Join(false)

	const n = int64(submitters * perSubmitter)
	if got, want := sum.Load(), n*(n-1)/2; got != want {
		t.Fatalf("sum = %d, want %d", got, want)
	}
	if max := pool.MaxThreads(); max != 8 {
		t.Fatalf("MaxThreads() = %d, want 8", max)
	}
}
