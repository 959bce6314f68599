package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicClock_FixedDoesNotMove(t *testing.T) {
	clock := NewFixedClock()
	assert.Equal(t, DemoTime, clock.Now())
	assert.Equal(t, DemoTime, clock.Now())
}

func TestDeterministicClock_StepsMonotonically(t *testing.T) {
	clock := NewDeterministicClock(DemoTime, time.Second)

	assert.Equal(t, DemoTime, clock.Now())
	assert.Equal(t, DemoTime.Add(time.Second), clock.Now())
	assert.Equal(t, DemoTime.Add(2*time.Second), clock.Peek())
}

func TestDeterministicClock_AdvanceAndReset(t *testing.T) {
	clock := NewDeterministicClock(DemoTime, time.Second)
	clock.Advance(24 * time.Hour)
	assert.Equal(t, DemoTime.Add(24*time.Hour), clock.Now())

	clock.Reset()
	assert.Equal(t, DemoTime, clock.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock(DemoTime, time.Millisecond)
	const numGoroutines = 50
	const callsPerGoroutine = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	var mu sync.Mutex
	seen := make(map[time.Time]bool)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				ts := clock.Now()
				mu.Lock()
				seen[ts] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, numGoroutines*callsPerGoroutine)
}

func TestSequentialIDGenerator(t *testing.T) {
	gen := NewSequentialIDGenerator("")
	assert.Equal(t, "test-session-0001", gen.Generate())
	assert.Equal(t, "test-session-0002", gen.Generate())

	gen = NewSequentialIDGenerator("s")
	assert.Equal(t, "s-0001", gen.Generate())
}
