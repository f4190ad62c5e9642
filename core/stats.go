package core

// PoolStats represents runtime observability state for a pool.
type PoolStats struct {
	Queued     int
	Created    uint
	Running    uint
	MaxThreads uint
	Paused     bool
	Executed   uint64
	Discarded  uint64
}
