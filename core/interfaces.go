package core

import (
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task panics during execution. The panic is
// already recovered and delivered to the task's future as a PanicError by the
// time the handler runs; the handler exists for logging and alerting.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a task panics.
	//
	// Parameters:
	// - workerID: The ID of the worker that executed the task
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(workerID int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(workerID int, panicInfo any, stackTrace []byte) {
	fmt.Printf("[Worker %d] Panic: %v\nStack trace:\n%s",
		workerID, panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting pool execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting task execution
// performance.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute.
	RecordTaskDuration(priority uint, duration time.Duration)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(panicInfo any)

	// RecordTaskDiscarded records tasks dropped from the queue by Clear or
	// Join(true) without being executed.
	RecordTaskDiscarded(count int)

	// RecordQueueDepth records the current queue depth.
	RecordQueueDepth(depth int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(priority uint, duration time.Duration) {}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(panicInfo any) {}

// RecordTaskDiscarded is a no-op.
func (m *NilMetrics) RecordTaskDiscarded(count int) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(depth int) {}

// =============================================================================
// Config: Configuration for PoolCore
// =============================================================================

// Config holds configuration options for a PoolCore.
// Handler fields are optional; if not provided, default implementations are used.
type Config struct {
	// MaxThreads is the maximum number of workers the pool may spawn.
	// Zero means no worker is ever spawned and submitted tasks queue forever.
	MaxThreads uint

	// StartPaused creates the pool with the pause gate closed; no task is
	// picked up until Unpause is called.
	StartPaused bool

	// DespawnTimeout is how long an idle worker blocks waiting for a task
	// before it exits. Defaults to DefaultDespawnTimeout.
	DespawnTimeout time.Duration

	// Logger receives pool lifecycle events. Defaults to NoOpLogger.
	Logger Logger

	// PanicHandler is called when a task panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record task execution metrics. Defaults to NilMetrics.
	Metrics Metrics
}

// DefaultDespawnTimeout is how long an idle worker waits for a task before
// exiting when no timeout is configured.
const DefaultDespawnTimeout = time.Second

func (c *Config) fillDefaults() {
	if c.DespawnTimeout <= 0 {
		c.DespawnTimeout = DefaultDespawnTimeout
	}
	if c.Logger == nil {
		c.Logger = &NoOpLogger{}
	}
	if c.PanicHandler == nil {
		c.PanicHandler = &DefaultPanicHandler{}
	}
	if c.Metrics == nil {
		c.Metrics = &NilMetrics{}
	}
}
