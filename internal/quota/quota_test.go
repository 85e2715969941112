package quota

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testChatID = int64(1001)

func TestGateAllowsBelowLimit(t *testing.T) {
	g := NewGate(3)

	require.Equal(t, Allowed, g.Check(testChatID))

	// Check must not mutate the counter.
	for i := 0; i < 10; i++ {
		g.Check(testChatID)
	}

	require.Equal(t, int64(0), g.Count(testChatID))
}

func TestGateBlocksAtLimit(t *testing.T) {
	g := NewGate(2)

	g.Increment(testChatID)
	require.Equal(t, Allowed, g.Check(testChatID))

	g.Increment(testChatID)
	require.Equal(t, Exceeded, g.Check(testChatID))

	// Quota is per chat.
	require.Equal(t, Allowed, g.Check(testChatID+1))
}

func TestGateDefaultLimit(t *testing.T) {
	g := NewGate(0)

	for i := 0; i < 59; i++ {
		g.Increment(testChatID)
	}

	require.Equal(t, Allowed, g.Check(testChatID))

	g.Increment(testChatID)
	require.Equal(t, Exceeded, g.Check(testChatID))
}

func TestGateConcurrentIncrements(t *testing.T) {
	g := NewGate(1000000)

	const (
		goroutines = 20
		perRoutine = 500
	)

	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < perRoutine; j++ {
				g.Increment(testChatID)
			}
		}()
	}

	wg.Wait()

	require.Equal(t, int64(goroutines*perRoutine), g.Count(testChatID))
}

func TestStats(t *testing.T) {
	s := NewStats()

	s.RecordSuccess(testChatID)
	s.RecordSuccess(testChatID)
	s.RecordFailure(testChatID)

	success, fail := s.Snapshot(testChatID)
	require.Equal(t, int64(2), success)
	require.Equal(t, int64(1), fail)

	success, fail = s.Snapshot(testChatID + 1)
	require.Zero(t, success)
	require.Zero(t, fail)
}
