// Package quota enforces the per-chat download ceiling and tracks per-chat
// delivery statistics. Counters live in process memory for the lifetime of
// the process and are never reset; durability across restarts is an
// explicit non-goal.
package quota

import (
	"sync"
	"sync/atomic"
)

const defaultLimit = 60

// Decision is the outcome of a quota check.
type Decision int

const (
	Allowed Decision = iota
	Exceeded
)

// Gate is a concurrency-safe per-chat download counter with a fixed ceiling.
type Gate struct {
	limit int64

	mu       sync.RWMutex
	counters map[int64]*atomic.Int64
}

// NewGate creates a gate with the given ceiling. Non-positive limits fall
// back to the default of 60.
func NewGate(limit int) *Gate {
	if limit <= 0 {
		limit = defaultLimit
	}

	return &Gate{
		limit:    int64(limit),
		counters: make(map[int64]*atomic.Int64),
	}
}

// Check reports whether the chat is still under quota. It never mutates the
// counter: the increment happens only after a confirmed delivery.
func (g *Gate) Check(chatID int64) Decision {
	if g.count(chatID) >= g.limit {
		return Exceeded
	}

	return Allowed
}

// Increment records one successful delivery for the chat.
func (g *Gate) Increment(chatID int64) {
	g.counter(chatID).Add(1)
}

// Count returns the current number of recorded deliveries for the chat.
func (g *Gate) Count(chatID int64) int64 {
	return g.count(chatID)
}

func (g *Gate) count(chatID int64) int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.counters[chatID]
	if !ok {
		return 0
	}

	return c.Load()
}

func (g *Gate) counter(chatID int64) *atomic.Int64 {
	g.mu.RLock()
	c, ok := g.counters[chatID]
	g.mu.RUnlock()

	if ok {
		return c
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok = g.counters[chatID]; ok {
		return c
	}

	c = &atomic.Int64{}
	g.counters[chatID] = c

	return c
}
