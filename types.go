package threadpool

import "github.com/respu/threadpool/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the threadpool package for most use cases.

// Future is a read handle for the eventual result of a submitted task
type Future[T any] = core.Future[T]

// Void is the result type for tasks that produce no value
type Void = core.Void

// PoolStats represents runtime observability state for a pool
type PoolStats = core.PoolStats

// Logger is the structured logging interface used by the pool
type Logger = core.Logger

// Field represents a key-value pair for structured logging
type Field = core.Field

// PanicHandler handles task panics
type PanicHandler = core.PanicHandler

// Metrics collects pool execution metrics
type Metrics = core.Metrics

// PanicError wraps a panic recovered from a task callable
type PanicError = core.PanicError

// Sentinel errors
var (
	ErrNilTask       = core.ErrNilTask
	ErrPoolJoining   = core.ErrPoolJoining
	ErrTaskDiscarded = core.ErrTaskDiscarded
)

// F creates a structured logging Field
var F = core.F
