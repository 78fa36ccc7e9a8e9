package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPreservesOrder(t *testing.T) {
	pool, err := credpool.New([]string{"a", "b", "c"})
	require.NoError(t, err)

	payloads := make([]int, 100)
	for i := range payloads {
		payloads[i] = i
	}

	dispatcher := NewDispatcher[int, int](pool)
	results, stats := dispatcher.Run(context.Background(), payloads, func(_ context.Context, _ credpool.Credential, n int) int {
		return n * 2
	})

	require.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, i*2, r)
	}
	assert.Equal(t, 3, stats.Workers)
	assert.Equal(t, int64(100), stats.Consumed)
}

// Consumed counts one job only, even when a dispatcher runs several.
func TestRunConsumedResetsBetweenJobs(t *testing.T) {
	pool, err := credpool.New([]string{"a", "b"})
	require.NoError(t, err)

	dispatcher := NewDispatcher[int, int](pool)
	identity := func(_ context.Context, _ credpool.Credential, n int) int { return n }

	_, first := dispatcher.Run(context.Background(), []int{1, 2, 3}, identity)
	assert.Equal(t, int64(3), first.Consumed)

	_, second := dispatcher.Run(context.Background(), []int{1, 2}, identity)
	assert.Equal(t, int64(2), second.Consumed)
}

func TestRunWorkerCountIsMinOfCredentialsAndTasks(t *testing.T) {
	pool, err := credpool.New([]string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	dispatcher := NewDispatcher[int, int](pool)
	_, stats := dispatcher.Run(context.Background(), []int{1, 2}, func(_ context.Context, _ credpool.Credential, n int) int {
		return n
	})
	assert.Equal(t, 2, stats.Workers)
}

// Each credential must never serve two in-flight calls at once.
func TestRunCredentialExclusivity(t *testing.T) {
	pool, err := credpool.New([]string{"k1", "k2", "k3", "k4", "k5"})
	require.NoError(t, err)

	var mu sync.Mutex
	inFlight := map[credpool.Credential]*int64{}

	payloads := make([]int, 50)
	dispatcher := NewDispatcher[int, bool](pool)
	results, _ := dispatcher.Run(context.Background(), payloads, func(_ context.Context, cred credpool.Credential, _ int) bool {
		mu.Lock()
		counter, ok := inFlight[cred]
		if !ok {
			counter = new(int64)
			inFlight[cred] = counter
		}
		mu.Unlock()

		concurrent := atomic.AddInt64(counter, 1)
		defer atomic.AddInt64(counter, -1)
		time.Sleep(time.Millisecond)
		return concurrent == 1
	})

	for i, exclusive := range results {
		assert.True(t, exclusive, "task %d saw its credential shared", i)
	}
	assert.LessOrEqual(t, len(inFlight), 5)
}

func TestRunEmptyPayloads(t *testing.T) {
	pool, err := credpool.New([]string{"a"})
	require.NoError(t, err)

	dispatcher := NewDispatcher[int, int](pool)
	results, stats := dispatcher.Run(context.Background(), nil, func(_ context.Context, _ credpool.Credential, n int) int {
		return n
	})
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.Tasks)
}
