package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	batches := Chunk([]int{1, 2, 3, 4, 5, 6, 7}, 3)
	require.Len(t, batches, 3)
	assert.Equal(t, []int{1, 2, 3}, batches[0])
	assert.Equal(t, []int{4, 5, 6}, batches[1])
	assert.Equal(t, []int{7}, batches[2])

	assert.Nil(t, Chunk([]int{}, 3))
	assert.Len(t, Chunk([]int{1, 2}, 10), 1)
}

func TestRetryFixedDelaySucceedsEventually(t *testing.T) {
	attempts := 0
	result, ok := RetryFixedDelay(context.Background(), func() (string, bool) {
		attempts++
		return "done", attempts == 3
	}, 3, time.Millisecond)

	assert.True(t, ok)
	assert.Equal(t, "done", result)
	assert.Equal(t, 3, attempts)
}

func TestRetryFixedDelayExhausted(t *testing.T) {
	attempts := 0
	result, ok := RetryFixedDelay(context.Background(), func() (int, bool) {
		attempts++
		return 0, false
	}, 3, time.Millisecond)

	assert.False(t, ok)
	assert.Zero(t, result)
	assert.Equal(t, 3, attempts)
}

func TestRetryFixedDelayHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	_, ok := RetryFixedDelay(ctx, func() (int, bool) {
		attempts++
		return 0, false
	}, 5, time.Hour)

	assert.False(t, ok)
	assert.Equal(t, 1, attempts)
}
