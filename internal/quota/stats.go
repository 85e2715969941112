package quota

import (
	"sync"
	"sync/atomic"
)

// ChatStats holds delivery outcome counts for one chat.
type ChatStats struct {
	Success atomic.Int64
	Fail    atomic.Int64
}

// Stats tracks per-chat delivery outcomes. Delivery failures are recorded
// here, not against the quota counter.
type Stats struct {
	mu    sync.RWMutex
	chats map[int64]*ChatStats
}

func NewStats() *Stats {
	return &Stats{chats: make(map[int64]*ChatStats)}
}

// RecordSuccess counts one delivered download for the chat.
func (s *Stats) RecordSuccess(chatID int64) {
	s.chat(chatID).Success.Add(1)
}

// RecordFailure counts one failed delivery for the chat.
func (s *Stats) RecordFailure(chatID int64) {
	s.chat(chatID).Fail.Add(1)
}

// Snapshot returns the current success and failure counts for the chat.
func (s *Stats) Snapshot(chatID int64) (success, fail int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chats[chatID]
	if !ok {
		return 0, 0
	}

	return c.Success.Load(), c.Fail.Load()
}

func (s *Stats) chat(chatID int64) *ChatStats {
	s.mu.RLock()
	c, ok := s.chats[chatID]
	s.mu.RUnlock()

	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok = s.chats[chatID]; ok {
		return c
	}

	c = &ChatStats{}
	s.chats[chatID] = c

	return c
}
