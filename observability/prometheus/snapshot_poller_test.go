package prometheus

import (
	"context"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/respu/threadpool/core"
)

type staticStatsProvider struct {
	stats core.PoolStats
}

func (s *staticStatsProvider) Stats() core.PoolStats { return s.stats }

// TestSnapshotPoller_ExportsStats tests a full poll cycle into the gauges
func TestSnapshotPoller_ExportsStats(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller() err = %v", err)
	}

	poller.AddPool("render", &staticStatsProvider{stats: core.PoolStats{
		Queued:     5,
		Created:    3,
		Running:    2,
		MaxThreads: 8,
		Paused:     true,
		Executed:   100,
		Discarded:  4,
	}})

	poller.Start(context.Background())
	defer poller.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(poller.poolQueued.WithLabelValues("render")) == 5 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	checks := []struct {
		name  string
		gauge prom.Gauge
		want  float64
	}{
		{"pool_queued", poller.poolQueued.WithLabelValues("render"), 5},
		{"pool_threads_created", poller.poolCreated.WithLabelValues("render"), 3},
		{"pool_threads_running", poller.poolRunning.WithLabelValues("render"), 2},
		{"pool_max_threads", poller.poolMaxThreads.WithLabelValues("render"), 8},
		{"pool_paused", poller.poolPaused.WithLabelValues("render"), 1},
		{"pool_executed_total", poller.poolExecuted.WithLabelValues("render"), 100},
		{"pool_discarded_total", poller.poolDiscarded.WithLabelValues("render"), 4},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.gauge); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

// TestSnapshotPoller_StartStopIdempotent tests lifecycle safety
func TestSnapshotPoller_StartStopIdempotent(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller() err = %v", err)
	}

	ctx := context.Background()
	poller.Start(ctx)
	poller.Start(ctx)
	poller.Stop()
	poller.Stop()

	// A stopped poller can be started again.
	poller.Start(ctx)
	poller.Stop()
}

// TestSnapshotPoller_LivePool tests polling against a real pool core
func TestSnapshotPoller_LivePool(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller() err = %v", err)
	}

	pool := core.NewPoolCore(core.Config{
		MaxThreads:     2,
		DespawnTimeout: 100 * time.Millisecond,
	})
	defer pool.Join(false)
	poller.AddPool("live", pool)

	f, err := core.Submit(pool, func() (int, error) { return 1, nil }, 0)
	if err != nil {
		t.Fatalf("Submit err = %v", err)
	}
	if _, err := f.Get(); err != nil {
		t.Fatalf("Get err = %v", err)
	}

	poller.Start(context.Background())
	defer poller.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(poller.poolExecuted.WithLabelValues("live")) >= 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("pool_executed_total never reached 1")
}
