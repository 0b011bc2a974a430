// Package votes holds the in-memory queue of decisions waiting for delivery.
//
// The queue is never written to disk: partial votes must not leak across
// sessions or devices. It is cleared on restart and whenever it is drained.
package votes

import (
	"errors"
	"sync"

	"github.com/Dosada05/worldcup/models"
)

// DefaultCapacity fits every decision of the largest supported bracket.
const DefaultCapacity = 1024

var ErrAccumulatorFull = errors.New("vote accumulator is full")

// Accumulator is a bounded FIFO of vote records owned by one play session.
// It is safe for concurrent use because lifecycle signals drain it from
// another goroutine.
type Accumulator struct {
	mu       sync.Mutex
	records  []models.VoteRecord
	capacity int
}

func NewAccumulator(capacity int) *Accumulator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Accumulator{capacity: capacity}
}

func (a *Accumulator) Append(rec models.VoteRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.records) >= a.capacity {
		return ErrAccumulatorFull
	}
	a.records = append(a.records, rec)
	return nil
}

// Drain returns every buffered record and empties the queue.
func (a *Accumulator) Drain() []models.VoteRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.records) == 0 {
		return nil
	}
	out := a.records
	a.records = nil
	return out
}

func (a *Accumulator) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Retract removes the most recent record for matchID with the given winner.
// It reports false when no such record is buffered (e.g. it was already flushed).
func (a *Accumulator) Retract(matchID, winnerID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := len(a.records) - 1; i >= 0; i-- {
		rec := a.records[i]
		if rec.WinnerID != winnerID {
			continue
		}
		if matchID != "" && rec.MatchID != matchID {
			continue
		}
		a.records = append(a.records[:i], a.records[i+1:]...)
		return true
	}
	return false
}

// Reset drops every buffered record without delivering it.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.records = nil
	a.mu.Unlock()
}
