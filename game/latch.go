package game

import "sync/atomic"

// Latch admits one decision at a time. A second trigger while one is
// pending is rejected instead of queued.
type Latch struct {
	held atomic.Bool
}

func (l *Latch) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

func (l *Latch) Release() {
	l.held.Store(false)
}

func (l *Latch) Held() bool {
	return l.held.Load()
}
