package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/respu/threadpool/core"
)

// PoolSnapshotProvider provides current pool stats snapshots.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

// SnapshotPoller periodically exports pool Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolQueued     *prom.GaugeVec
	poolCreated    *prom.GaugeVec
	poolRunning    *prom.GaugeVec
	poolMaxThreads *prom.GaugeVec
	poolPaused     *prom.GaugeVec
	poolExecuted   *prom.GaugeVec
	poolDiscarded  *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_queued",
		Help:      "Queued tasks per pool.",
	}, []string{"pool"})
	poolCreated := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_threads_created",
		Help:      "Live worker count per pool.",
	}, []string{"pool"})
	poolRunning := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_threads_running",
		Help:      "Workers currently executing a task per pool.",
	}, []string{"pool"})
	poolMaxThreads := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_max_threads",
		Help:      "Configured worker limit per pool.",
	}, []string{"pool"})
	poolPaused := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_paused",
		Help:      "Pool paused state (1=paused, 0=running).",
	}, []string{"pool"})
	poolExecuted := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_executed_total",
		Help:      "Executed task count snapshot.",
	}, []string{"pool"})
	poolDiscarded := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_discarded_total",
		Help:      "Discarded task count snapshot.",
	}, []string{"pool"})

	var err error
	if poolQueued, err = registerCollector(reg, poolQueued); err != nil {
		return nil, err
	}
	if poolCreated, err = registerCollector(reg, poolCreated); err != nil {
		return nil, err
	}
	if poolRunning, err = registerCollector(reg, poolRunning); err != nil {
		return nil, err
	}
	if poolMaxThreads, err = registerCollector(reg, poolMaxThreads); err != nil {
		return nil, err
	}
	if poolPaused, err = registerCollector(reg, poolPaused); err != nil {
		return nil, err
	}
	if poolExecuted, err = registerCollector(reg, poolExecuted); err != nil {
		return nil, err
	}
	if poolDiscarded, err = registerCollector(reg, poolDiscarded); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:       interval,
		pools:          make(map[string]PoolSnapshotProvider),
		poolQueued:     poolQueued,
		poolCreated:    poolCreated,
		poolRunning:    poolRunning,
		poolMaxThreads: poolMaxThreads,
		poolPaused:     poolPaused,
		poolExecuted:   poolExecuted,
		poolDiscarded:  poolDiscarded,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	if name == "" {
		name = "pool"
	}
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.poolCreated.WithLabelValues(name).Set(float64(stats.Created))
		p.poolRunning.WithLabelValues(name).Set(float64(stats.Running))
		p.poolMaxThreads.WithLabelValues(name).Set(float64(stats.MaxThreads))
		if stats.Paused {
			p.poolPaused.WithLabelValues(name).Set(1)
		} else {
			p.poolPaused.WithLabelValues(name).Set(0)
		}
		p.poolExecuted.WithLabelValues(name).Set(float64(stats.Executed))
		p.poolDiscarded.WithLabelValues(name).Set(float64(stats.Discarded))
	}
}
