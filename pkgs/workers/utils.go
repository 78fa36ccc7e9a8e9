package workers

import (
	"context"
	"time"
)

// Chunk splits items into consecutive slices of at most batchSize elements.
// This is useful for processing items in chunks to improve efficiency
func Chunk[T any](items []T, batchSize int) [][]T {
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

// RetryFixedDelay retries a non-throwing operation with a fixed inter-attempt
// delay. Exhausting retries is not an error: it returns the zero value and
// ok=false, and the caller degrades.
func RetryFixedDelay[T any](
	ctx context.Context,
	fn func() (T, bool),
	maxRetries int,
	delay time.Duration,
) (T, bool) {
	var zero T

	for i := 0; i < maxRetries; i++ {
		result, ok := fn()
		if ok {
			return result, true
		}

		if i == maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, false
		case <-time.After(delay):
		}
	}

	return zero, false
}
