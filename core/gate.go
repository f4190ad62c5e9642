package core

import "sync"

// pauseGate halts task pickup without affecting in-flight executions.
//
// It is an explicit paused flag guarded by a mutex with a condition variable
// for blocked workers. Pause and Unpause are flag flips plus a notify, so
// they are idempotent and safe to call from any goroutine, including a
// repeated Pause with no matching Unpause in between.
type pauseGate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
}

func newPauseGate(startPaused bool) *pauseGate {
	g := &pauseGate{paused: startPaused}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Pause closes the gate. Workers finish their current task and then block
// before the next pop.
func (g *pauseGate) Pause() {
	g.mu.Lock()
	g.paused = true
	g.mu.Unlock()
}

// Unpause opens the gate and wakes all blocked workers.
func (g *pauseGate) Unpause() {
	g.mu.Lock()
	g.paused = false
	g.mu.Unlock()
	g.cond.Broadcast()
}

// Paused reports whether the gate is closed.
func (g *pauseGate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// wait blocks the calling worker while the gate is closed. It returns when
// the gate opens, or immediately once stop is closed so a join can proceed
// against a paused pool. Join must call interrupt after closing stop.
func (g *pauseGate) wait(stop <-chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.paused {
		select {
		case <-stop:
			return
		default:
		}
		g.cond.Wait()
	}
}

// interrupt wakes blocked workers without opening the gate, so they can
// re-check the stop channel. The broadcast happens under mu: a waiter holds
// mu from its stop check until cond.Wait parks it, so the wakeup can never
// land in between and be lost.
func (g *pauseGate) interrupt() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cond.Broadcast()
}
